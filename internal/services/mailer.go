package services

import (
	"context"
	"fmt"
	"html"
	"sync"
	"time"

	"go.uber.org/zap"

	"xconsultation/internal/config"
	"xconsultation/internal/domain"
	"xconsultation/internal/i18n"
	"xconsultation/internal/metrics"
	"xconsultation/internal/notify"
)

// Notification kinds, used as metric labels and log fields
const (
	NotifyContactAdmin        = "contact_admin"
	NotifyContactConfirmation = "contact_confirmation"
	NotifyAppointmentAdmin    = "appointment_admin"
	NotifyAppointmentAck      = "appointment_ack"
	NotifyDateTimeUpdate      = "datetime_update"
)

const adminTimeLayout = "02.01.2006 15:04:05"

// defaultStepTimeout bounds one background send when the config sets no timeout
const defaultStepTimeout = 10 * time.Second

// Mailer renders submissions into notifications and hands them to the gateway
type Mailer struct {
	gateway     notify.Gateway
	adminEmail  string
	senderEmail string
	stepTimeout time.Duration
	now         func() time.Time

	inflight sync.WaitGroup
}

// NewMailer creates a mailer sending through gateway
func NewMailer(gateway notify.Gateway, cfg config.EmailConfig, opts ...Option) *Mailer {
	o := buildOptions(opts)
	stepTimeout := cfg.Timeout
	if stepTimeout <= 0 {
		stepTimeout = defaultStepTimeout
	}
	return &Mailer{
		gateway:     gateway,
		adminEmail:  cfg.AdminEmail,
		senderEmail: cfg.FromEmail,
		stepTimeout: stepTimeout,
		now:         o.now,
	}
}

// dispatch runs a best-effort sequence in the background so the caller can
// respond as soon as the record is stored. The sequence is detached from the
// request context and gets one step timeout per notification.
func (m *Mailer) dispatch(ctx context.Context, log *zap.Logger, steps ...notification) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.stepTimeout*time.Duration(len(steps)))
	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		defer cancel()
		runBestEffort(ctx, log, steps...)
	}()
}

// Wait blocks until every dispatched sequence has finished or ctx is done
func (m *Mailer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Mailer) send(ctx context.Context, kind string, msg notify.Message) error {
	err := guard(func() error {
		return m.gateway.Send(ctx, msg)
	})
	metrics.RecordNotification(kind, err)
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	return nil
}

// ContactAdminNotice tells the admin about a new contact form
func (m *Mailer) ContactAdminNotice(ctx context.Context, form *domain.ContactSubmission) error {
	rows := []adminRow{
		{"Ad Soyad", form.Name},
		{"Telefon", form.PhoneNumber},
		{"E-posta", form.Email},
		{"Konu", form.Topic},
		{"Mesaj", form.Message},
		{"Dil", i18n.LanguageName(form.Language)},
		{"Gönderim Tarihi", form.SubmittedAt.UTC().Format(adminTimeLayout)},
		{"Form ID", form.ID},
	}
	return m.send(ctx, NotifyContactAdmin, notify.Message{
		To:       m.adminEmail,
		Subject:  "Yeni İletişim Formu - " + form.Topic,
		HTMLBody: adminHTML("Yeni İletişim Formu", rows, "Bu e-posta X Consultation iletişim formu aracılığıyla gönderilmiştir."),
		TextBody: adminText("Yeni İletişim Formu", rows),
	})
}

// ContactConfirmation sends the localized confirmation to the submitter
func (m *Mailer) ContactConfirmation(ctx context.Context, form *domain.ContactSubmission) error {
	texts := i18n.Lookup(i18n.ContactConfirmation, form.Language)
	return m.send(ctx, NotifyContactConfirmation, notify.Message{
		To:       form.Email,
		Subject:  texts.Subject,
		HTMLBody: confirmationHTML(texts, form.Language, form.Name, ""),
		TextBody: confirmationText(texts, form.Name, ""),
	})
}

// AppointmentAdminNotice tells the admin about a new quick appointment
func (m *Mailer) AppointmentAdminNotice(ctx context.Context, appt *domain.QuickAppointment) error {
	rows := []adminRow{
		{"Ad Soyad", appt.Name},
		{"Telefon", appt.PhoneNumber},
		{"Mesaj", appt.Message},
		{"Dil", i18n.LanguageName(appt.Language)},
		{"Durum", string(appt.Status)},
		{"Gönderim Tarihi", appt.SubmittedAt.UTC().Format(adminTimeLayout)},
		{"Randevu ID", appt.ID},
	}
	return m.send(ctx, NotifyAppointmentAdmin, notify.Message{
		To:       m.adminEmail,
		Subject:  "🚀 Yeni Hızlı Randevu Talebi - " + appt.Name,
		HTMLBody: adminHTML("Yeni Hızlı Randevu Talebi", rows, "Lütfen müşteriyle en kısa sürede telefonla iletişime geçin."),
		TextBody: adminText("Yeni Hızlı Randevu Talebi", rows),
	})
}

// AppointmentAcknowledgment renders the localized acknowledgment. Phone-only
// submitters have no email channel, so it is addressed to the sender mailbox.
func (m *Mailer) AppointmentAcknowledgment(ctx context.Context, appt *domain.QuickAppointment) error {
	texts := i18n.Lookup(i18n.AppointmentConfirmation, appt.Language)
	return m.send(ctx, NotifyAppointmentAck, notify.Message{
		To:       m.senderEmail,
		Subject:  texts.Subject,
		HTMLBody: confirmationHTML(texts, appt.Language, appt.Name, appt.PhoneNumber),
		TextBody: confirmationText(texts, appt.Name, appt.PhoneNumber),
	})
}

// DateTimeUpdateNotice tells the admin about a new scheduling preference
func (m *Mailer) DateTimeUpdateNotice(ctx context.Context, appt *domain.QuickAppointment, preferredDate, preferredTime string, lang domain.Language) error {
	rows := []adminRow{
		{"Müşteri Adı", appt.Name},
		{"Telefon", appt.PhoneNumber},
		{"Tercih Edilen Tarih", preferredDate},
		{"Tercih Edilen Saat", preferredTime},
		{"Dil", i18n.LanguageName(lang)},
		{"Güncellenme Tarihi", m.now().UTC().Format(adminTimeLayout)},
	}
	return m.send(ctx, NotifyDateTimeUpdate, notify.Message{
		To:       m.adminEmail,
		Subject:  "📅 Randevu Tarih/Saat Tercihi - " + appt.Name,
		HTMLBody: adminHTML("Randevu Tarih/Saat Tercihi Güncellendi", rows, "Lütfen müşteriyle iletişime geçip randevuyu onaylayın."),
		TextBody: adminText("Randevu Tarih/Saat Tercihi Güncellendi", rows),
	})
}

type adminRow struct {
	label string
	value string
}

func adminHTML(title string, rows []adminRow, footer string) string {
	fields := ""
	for _, r := range rows {
		fields += fmt.Sprintf(`            <p style="margin: 0 0 12px;"><strong style="color: #667eea;">%s:</strong> <span style="white-space: pre-wrap;">%s</span></p>
`, html.EscapeString(r.label), html.EscapeString(r.value))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="tr">
<head>
    <meta charset="UTF-8">
    <title>%s</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px;">
        <div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); color: #FFFFFF; padding: 15px; border-radius: 3px;">
            <h2 style="margin: 0;">%s</h2>
        </div>
        <div style="padding: 20px 0;">
%s        </div>
        <div style="text-align: center; padding-top: 20px; border-top: 1px solid #ddd; color: #666; font-size: 12px;">
            <p>%s</p>
        </div>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(title), fields, html.EscapeString(footer))
}

func adminText(title string, rows []adminRow) string {
	text := title + "\n\n"
	for _, r := range rows {
		text += fmt.Sprintf("%s: %s\n", r.label, r.value)
	}
	return text
}

func confirmationHTML(texts i18n.Texts, lang domain.Language, name, phone string) string {
	phoneLine := ""
	if phone != "" {
		phoneLine = fmt.Sprintf(`            <p style="margin: 0 0 16px; color: #64748B;">📞 %s</p>
`, html.EscapeString(phone))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="%s">
<head>
    <meta charset="UTF-8">
    <title>%s</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); color: #FFFFFF; padding: 20px; border-radius: 5px; text-align: center;">
            <h2 style="margin: 0;">%s</h2>
        </div>
        <div style="padding: 20px 0;">
            <p style="margin: 0 0 16px;">%s %s,</p>
            <p style="margin: 0 0 16px;">%s</p>
%s            <p style="margin: 0;"><strong>%s</strong></p>
        </div>
        <div style="text-align: center; padding-top: 20px; border-top: 1px solid #ddd; color: #666; font-size: 12px;">
            <p>%s</p>
        </div>
    </div>
</body>
</html>`,
		html.EscapeString(string(lang)),
		html.EscapeString(texts.Subject),
		html.EscapeString(texts.Title),
		html.EscapeString(texts.Greeting), html.EscapeString(name),
		html.EscapeString(texts.Body),
		phoneLine,
		html.EscapeString(texts.Thanks),
		html.EscapeString(texts.Footer),
	)
}

func confirmationText(texts i18n.Texts, name, phone string) string {
	text := fmt.Sprintf("%s %s,\n\n%s\n\n", texts.Greeting, name, texts.Body)
	if phone != "" {
		text += phone + "\n\n"
	}
	return text + texts.Thanks + "\n" + texts.Footer + "\n"
}
