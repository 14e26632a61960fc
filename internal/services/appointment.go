package services

import (
	"context"
	"errors"
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

// ListLimit caps the number of appointments returned by List
const ListLimit = 50

// QuickAppointmentRequest is a quick appointment payload
type QuickAppointmentRequest struct {
	PhoneNumber string
	Name        string
	Message     string
	Language    string
}

// QuickAppointmentResult is returned for an accepted quick appointment
type QuickAppointmentResult struct {
	Message       string
	AppointmentID string
	PhoneNumber   string
}

// DateTimeUpdateRequest attaches a scheduling preference to the latest appointment of a phone
type DateTimeUpdateRequest struct {
	PhoneNumber   string
	PreferredDate *string
	PreferredTime *string
	Language      string
}

// DateTimeUpdateResult acknowledges a stored preference
type DateTimeUpdateResult struct {
	Message string
}

// AppointmentService handles quick appointments
type AppointmentService struct {
	store  store.RecordStore
	mailer *Mailer
	log    *zap.Logger
	now    func() time.Time
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(recordStore store.RecordStore, mailer *Mailer, log *zap.Logger, opts ...Option) *AppointmentService {
	o := buildOptions(opts)
	return &AppointmentService{
		store:  recordStore,
		mailer: mailer,
		log:    log.Named("appointment"),
		now:    o.now,
	}
}

// SubmitQuick persists a pending appointment, then notifies on a best-effort basis
func (s *AppointmentService) SubmitQuick(ctx context.Context, req QuickAppointmentRequest) (*QuickAppointmentResult, error) {
	lang := domain.NormalizeLanguage(req.Language)

	appt := &domain.QuickAppointment{
		ID:          uuid.NewString(),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Name:        strings.TrimSpace(req.Name),
		Message:     strings.TrimSpace(req.Message),
		Language:    lang,
		SubmittedAt: s.now().UTC(),
		Status:      domain.StatusPending,
	}
	if err := validateQuick(appt, lang); err != nil {
		s.log.Info("quick submit rejected", zap.String("field", err.Field))
		return nil, err
	}

	s.log.Info("quick submit request", zap.String("phone", appt.PhoneNumber), zap.String("language", string(lang)))

	var id string
	err := guard(func() error {
		var err error
		id, err = s.store.Create(ctx, domain.CollectionQuickAppointments, appt)
		return err
	})
	if err != nil {
		s.log.Error("quick submit failed: database error", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, i18n.Message(i18n.GenericError, lang), err)
	}

	s.log.Info("quick submit successful", zap.String("appointment_id", id))
	metrics.RecordSubmission(domain.CollectionQuickAppointments)

	s.mailer.dispatch(ctx, s.log.With(zap.String("appointment_id", id)),
		notification{NotifyAppointmentAdmin, func(ctx context.Context) error { return s.mailer.AppointmentAdminNotice(ctx, appt) }},
		notification{NotifyAppointmentAck, func(ctx context.Context) error { return s.mailer.AppointmentAcknowledgment(ctx, appt) }},
	)

	return &QuickAppointmentResult{
		Message:       i18n.Message(i18n.AppointmentSubmitted, lang),
		AppointmentID: id,
		PhoneNumber:   appt.PhoneNumber,
	}, nil
}

// UpdateDateTime stores a date/time preference on the most recent appointment
// for the phone number and notifies the admin. Unlike submissions, a failed
// notice fails the call.
//
// Resolution and update are separate statements: two concurrent updates for
// the same phone both resolve the same record and the last write wins.
func (s *AppointmentService) UpdateDateTime(ctx context.Context, req DateTimeUpdateRequest) (*DateTimeUpdateResult, error) {
	lang := domain.NormalizeLanguage(req.Language)
	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		return nil, apperrors.Validation("phone", i18n.Message(i18n.PhoneRequired, lang))
	}

	s.log.Info("datetime update request", zap.String("phone", phone))

	appt, err := s.latestByPhone(ctx, phone)
	if err != nil {
		s.log.Error("datetime update failed: database error", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, i18n.Message(i18n.GenericError, lang), err)
	}
	if appt == nil {
		s.log.Info("datetime update failed: no appointment", zap.String("phone", phone))
		return nil, apperrors.New(apperrors.ErrCodeNotFound, i18n.Message(i18n.AppointmentNotFound, lang))
	}

	preferredDate := preference(req.PreferredDate)
	preferredTime := preference(req.PreferredTime)

	err = guard(func() error {
		return s.store.UpdatePartial(ctx, domain.CollectionQuickAppointments, appt.ID, map[string]any{
			domain.ColumnPreferredDate: preferredDate,
			domain.ColumnPreferredTime: preferredTime,
		})
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrCodeNotFound, i18n.Message(i18n.AppointmentNotFound, lang), err)
	}
	if err != nil {
		s.log.Error("datetime update failed: database error", zap.String("appointment_id", appt.ID), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, i18n.Message(i18n.GenericError, lang), err)
	}
	metrics.RecordDateTimeUpdate()
	appt.PreferredDate = &preferredDate
	appt.PreferredTime = &preferredTime

	if err := s.mailer.DateTimeUpdateNotice(ctx, appt, preferredDate, preferredTime, lang); err != nil {
		s.log.Error("datetime update failed: notification error", zap.String("appointment_id", appt.ID), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrCodeNotification, i18n.Message(i18n.GenericError, lang), err)
	}

	s.log.Info("datetime update successful", zap.String("appointment_id", appt.ID))
	return &DateTimeUpdateResult{Message: i18n.Message(i18n.DateTimeUpdated, lang)}, nil
}

// List returns the most recent appointments, newest first
func (s *AppointmentService) List(ctx context.Context) ([]domain.QuickAppointment, error) {
	appointments := make([]domain.QuickAppointment, 0)
	err := guard(func() error {
		return s.store.Query(ctx, store.Query{
			Collection: domain.CollectionQuickAppointments,
			OrderBy:    domain.ColumnSubmittedAt,
			Descending: true,
			Limit:      ListLimit,
		}, &appointments)
	})
	if err != nil {
		s.log.Error("list failed: database error", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, i18n.Message(i18n.GenericError, domain.DefaultLanguage), err)
	}
	s.log.Debug("list successful", zap.Int("count", len(appointments)))
	return appointments, nil
}

// latestByPhone returns nil when the phone has no appointments
func (s *AppointmentService) latestByPhone(ctx context.Context, phone string) (*domain.QuickAppointment, error) {
	var matches []domain.QuickAppointment
	err := guard(func() error {
		return s.store.Query(ctx, store.Query{
			Collection: domain.CollectionQuickAppointments,
			Field:      domain.ColumnPhoneNumber,
			Value:      phone,
			OrderBy:    domain.ColumnSubmittedAt,
			Descending: true,
			Limit:      1,
		}, &matches)
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func preference(v *string) string {
	if v == nil {
		return domain.NotSpecified
	}
	if trimmed := strings.TrimSpace(*v); trimmed != "" {
		return trimmed
	}
	return domain.NotSpecified
}

func validateQuick(appt *domain.QuickAppointment, lang domain.Language) *apperrors.AppError {
	msg := i18n.Message(i18n.RequiredFields, lang)
	switch {
	case appt.PhoneNumber == "":
		return apperrors.Validation("phone", msg)
	case appt.Name == "":
		return apperrors.Validation("name", msg)
	case appt.Message == "":
		return apperrors.Validation("message", msg)
	}
	return nil
}
