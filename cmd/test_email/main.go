package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"xconsultation/internal/config"
	"xconsultation/internal/domain"
	"xconsultation/internal/logger"
	"xconsultation/internal/notify"
	"xconsultation/internal/services"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		to   string
		lang string
		kind string
	)

	cmd := &cobra.Command{
		Use:           "test_email",
		Short:         "Send a sample notification through the configured email provider",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			gateway, err := notify.New(cfg.Email, log)
			if err != nil {
				return err
			}
			return sendSample(cmd.Context(), gateway, cfg.Email, to, lang, kind, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient address (defaults to ADMIN_EMAIL)")
	cmd.Flags().StringVar(&lang, "lang", string(domain.DefaultLanguage), "locale of the sample: tr, en, fr or ku")
	cmd.Flags().StringVar(&kind, "kind", "contact", "sample to send: contact (localized confirmation) or appointment (admin notice)")
	return cmd
}

func sendSample(ctx context.Context, gateway notify.Gateway, cfg config.EmailConfig, to, lang, kind string, out io.Writer) error {
	if to == "" {
		to = cfg.AdminEmail
	}
	if to == "" {
		return errors.New("no recipient: pass --to or set ADMIN_EMAIL")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	language := domain.NormalizeLanguage(lang)
	now := time.Now().UTC()

	var err error
	switch kind {
	case "contact":
		mailer := services.NewMailer(gateway, cfg)
		err = mailer.ContactConfirmation(ctx, &domain.ContactSubmission{
			ID:          uuid.NewString(),
			Name:        "Test",
			Email:       to,
			Topic:       "test",
			Message:     "test_email sample",
			Language:    language,
			SubmittedAt: now,
		})
	case "appointment":
		cfg.AdminEmail = to
		mailer := services.NewMailer(gateway, cfg)
		err = mailer.AppointmentAdminNotice(ctx, &domain.QuickAppointment{
			ID:          uuid.NewString(),
			PhoneNumber: "+90 000 000 00 00",
			Name:        "Test",
			Message:     "test_email sample",
			Language:    language,
			SubmittedAt: now,
			Status:      domain.StatusPending,
		})
	default:
		return fmt.Errorf("unknown sample kind %q", kind)
	}
	if err != nil {
		return fmt.Errorf("failed to send sample email: %w", err)
	}

	fmt.Fprintf(out, "Sample %s email (%s) sent to %s via %s\n", kind, language, to, cfg.Provider)
	return nil
}
