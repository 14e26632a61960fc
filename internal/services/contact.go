package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"xconsultation/internal/domain"
	"xconsultation/internal/i18n"
	"xconsultation/internal/metrics"
	"xconsultation/internal/store"
	apperrors "xconsultation/pkg/errors"
)

// ContactRequest is a validated contact form payload
type ContactRequest struct {
	Name        string
	PhoneNumber string
	Email       string
	Topic       string
	Message     string
	Language    string
}

// ContactResult is returned for an accepted contact form
type ContactResult struct {
	Message string
	FormID  string
}

// ContactService handles contact form submissions
type ContactService struct {
	store  store.RecordStore
	mailer *Mailer
	log    *zap.Logger
	now    func() time.Time
}

// NewContactService creates a new contact service
func NewContactService(recordStore store.RecordStore, mailer *Mailer, log *zap.Logger, opts ...Option) *ContactService {
	o := buildOptions(opts)
	return &ContactService{
		store:  recordStore,
		mailer: mailer,
		log:    log.Named("contact"),
		now:    o.now,
	}
}

// Submit persists the form, then notifies the admin and the submitter in the background.
// Notification failures are logged and never change the result.
func (s *ContactService) Submit(ctx context.Context, req ContactRequest) (*ContactResult, error) {
	lang := domain.NormalizeLanguage(req.Language)

	form := &domain.ContactSubmission{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Email:       strings.TrimSpace(req.Email),
		Topic:       strings.TrimSpace(req.Topic),
		Message:     strings.TrimSpace(req.Message),
		Language:    lang,
		SubmittedAt: s.now().UTC(),
	}
	if err := validateContact(form, lang); err != nil {
		s.log.Info("submit rejected", zap.String("field", err.Field))
		return nil, err
	}

	s.log.Info("submit request", zap.String("name", form.Name), zap.String("email", form.Email), zap.String("language", string(lang)))

	var id string
	err := guard(func() error {
		var err error
		id, err = s.store.Create(ctx, domain.CollectionContactForms, form)
		return err
	})
	if err != nil {
		s.log.Error("submit failed: database error", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, i18n.Message(i18n.GenericError, lang), err)
	}

	s.log.Info("submit successful", zap.String("form_id", id))
	metrics.RecordSubmission(domain.CollectionContactForms)

	s.mailer.dispatch(ctx, s.log.With(zap.String("form_id", id)),
		notification{NotifyContactAdmin, func(ctx context.Context) error { return s.mailer.ContactAdminNotice(ctx, form) }},
		notification{NotifyContactConfirmation, func(ctx context.Context) error { return s.mailer.ContactConfirmation(ctx, form) }},
	)

	return &ContactResult{
		Message: i18n.Message(i18n.ContactSubmitted, lang),
		FormID:  id,
	}, nil
}

func validateContact(form *domain.ContactSubmission, lang domain.Language) *apperrors.AppError {
	msg := i18n.Message(i18n.RequiredFields, lang)
	switch {
	case form.Name == "":
		return apperrors.Validation("name", msg)
	case form.PhoneNumber == "":
		return apperrors.Validation("phone", msg)
	case form.Email == "":
		return apperrors.Validation("email", msg)
	case form.Topic == "":
		return apperrors.Validation("topic", msg)
	case form.Message == "":
		return apperrors.Validation("message", msg)
	}
	return nil
}

type notification struct {
	kind string
	send func(ctx context.Context) error
}

// runBestEffort sends notifications in order. The first failure is logged as a
// warning and ends the sequence.
func runBestEffort(ctx context.Context, log *zap.Logger, steps ...notification) {
	for i, step := range steps {
		if err := step.send(ctx); err != nil {
			log.Warn("notification failed",
				zap.String("kind", step.kind),
				zap.Int("skipped", len(steps)-i-1),
				zap.Error(err),
			)
			return
		}
	}
	log.Info("notifications sent", zap.Int("count", len(steps)))
}
