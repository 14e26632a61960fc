package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xconsultation/internal/domain"
	"xconsultation/internal/notify"
	"xconsultation/internal/store"
	apperrors "xconsultation/pkg/errors"
)

func loadAppointments(t *testing.T, f *fixture) map[string]domain.QuickAppointment {
	t.Helper()
	var all []domain.QuickAppointment
	require.NoError(t, f.store.Query(context.Background(), store.Query{Collection: domain.CollectionQuickAppointments}, &all))
	byID := make(map[string]domain.QuickAppointment, len(all))
	for _, a := range all {
		byID[a.ID] = a
	}
	return byID
}

func submitQuick(t *testing.T, f *fixture, phone, name string) string {
	t.Helper()
	res, err := f.appointments.SubmitQuick(context.Background(), QuickAppointmentRequest{
		PhoneNumber: phone,
		Name:        name,
		Message:     "please call",
		Language:    "tr",
	})
	require.NoError(t, err)
	f.settle(t)
	return res.AppointmentID
}

func TestSubmitQuickStoresPendingAppointment(t *testing.T) {
	f := newFixture(t)

	res, err := f.appointments.SubmitQuick(context.Background(), QuickAppointmentRequest{
		PhoneNumber: " 555 ",
		Name:        "Ana",
		Message:     "call me",
		Language:    "fr-CA",
	})
	require.NoError(t, err)
	assert.Equal(t, "555", res.PhoneNumber)
	assert.Equal(t, "Votre demande de rendez-vous a été reçue.", res.Message)

	stored := loadAppointments(t, f)[res.AppointmentID]
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Equal(t, domain.LanguageFrench, stored.Language)
	assert.Nil(t, stored.PreferredDate)
	assert.Nil(t, stored.PreferredTime)

	f.settle(t)
	sent := f.gateway.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, adminAddr, sent[0].To)
	assert.Equal(t, "🚀 Yeni Hızlı Randevu Talebi - Ana", sent[0].Subject)
	// phone-only submitters have no mailbox; the acknowledgment goes to the sender
	assert.Equal(t, senderAddr, sent[1].To)
	assert.Equal(t, "✓ Votre demande de rendez-vous reçue", sent[1].Subject)
}

func TestSubmitQuickRejectsBlankFields(t *testing.T) {
	tests := []struct {
		name  string
		req   QuickAppointmentRequest
		field string
	}{
		{"missing phone", QuickAppointmentRequest{Name: "Ana", Message: "hi"}, "phone"},
		{"missing name", QuickAppointmentRequest{PhoneNumber: "555", Message: "hi"}, "name"},
		{"blank name", QuickAppointmentRequest{PhoneNumber: "555", Name: "  ", Message: "hi"}, "name"},
		{"missing message", QuickAppointmentRequest{PhoneNumber: "555", Name: "Ana"}, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			res, err := f.appointments.SubmitQuick(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, res)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Field)
			assert.Equal(t, "Telefon, isim ve mesaj alanları zorunludur.", appErr.Message)

			assert.Zero(t, f.store.creates)
			assert.Empty(t, loadAppointments(t, f))
			assert.Empty(t, f.gateway.messages())
		})
	}
}

func TestSubmitQuickSucceedsWhenNotificationsFail(t *testing.T) {
	f := newFixture(t)
	f.gateway.fail = failAlways

	id := submitQuick(t, f, "555", "Ana")
	assert.Contains(t, loadAppointments(t, f), id)
}

func TestSubmitQuickPersistenceFailure(t *testing.T) {
	f := newFixture(t)
	f.store.createErr = errors.New("disk full")

	_, err := f.appointments.SubmitQuick(context.Background(), QuickAppointmentRequest{PhoneNumber: "555", Name: "Ana", Message: "hi"})
	assert.True(t, apperrors.IsPersistence(err))
	assert.Empty(t, f.gateway.messages())
}

func TestUpdateDateTimeTouchesOnlyLatest(t *testing.T) {
	f := newFixture(t)
	first := submitQuick(t, f, "555", "first")
	second := submitQuick(t, f, "555", "second")
	other := submitQuick(t, f, "777", "other")
	latest := submitQuick(t, f, "555", "latest")
	f.gateway.sent = nil

	res, err := f.appointments.UpdateDateTime(context.Background(), DateTimeUpdateRequest{
		PhoneNumber:   "555",
		PreferredDate: ptr("2025-03-10"),
		PreferredTime: ptr("14:00"),
		Language:      "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "Your preferred date/time has been saved.", res.Message)

	stored := loadAppointments(t, f)
	require.NotNil(t, stored[latest].PreferredDate)
	assert.Equal(t, "2025-03-10", *stored[latest].PreferredDate)
	assert.Equal(t, "14:00", *stored[latest].PreferredTime)
	assert.Equal(t, "latest", stored[latest].Name)
	assert.Equal(t, domain.StatusPending, stored[latest].Status)
	for _, id := range []string{first, second, other} {
		assert.Nil(t, stored[id].PreferredDate, id)
		assert.Nil(t, stored[id].PreferredTime, id)
	}

	sent := f.gateway.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, adminAddr, sent[0].To)
	assert.Equal(t, "📅 Randevu Tarih/Saat Tercihi - latest", sent[0].Subject)
	assert.Contains(t, sent[0].HTMLBody, "2025-03-10")
	assert.Contains(t, sent[0].TextBody, "Dil: English")
}

func TestUpdateDateTimeUsesSentinelForOmittedValues(t *testing.T) {
	f := newFixture(t)
	id := submitQuick(t, f, "555", "Ana")

	_, err := f.appointments.UpdateDateTime(context.Background(), DateTimeUpdateRequest{
		PhoneNumber:   "555",
		PreferredTime: ptr("   "),
	})
	require.NoError(t, err)

	stored := loadAppointments(t, f)[id]
	assert.Equal(t, domain.NotSpecified, *stored.PreferredDate)
	assert.Equal(t, domain.NotSpecified, *stored.PreferredTime)
}

func TestUpdateDateTimeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	id := submitQuick(t, f, "555", "Ana")

	req := DateTimeUpdateRequest{PhoneNumber: "555", PreferredDate: ptr("2025-03-10"), PreferredTime: ptr("09:30")}
	for i := 0; i < 2; i++ {
		_, err := f.appointments.UpdateDateTime(context.Background(), req)
		require.NoError(t, err)
	}

	stored := loadAppointments(t, f)
	require.Len(t, stored, 1)
	assert.Equal(t, "2025-03-10", *stored[id].PreferredDate)
	assert.Equal(t, "09:30", *stored[id].PreferredTime)
}

func TestUpdateDateTimeNotFound(t *testing.T) {
	f := newFixture(t)
	submitQuick(t, f, "777", "other")
	f.gateway.sent = nil

	_, err := f.appointments.UpdateDateTime(context.Background(), DateTimeUpdateRequest{PhoneNumber: "555", PreferredDate: ptr("2025-03-10")})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Zero(t, f.store.updates)
	assert.Empty(t, f.gateway.messages())
}

func TestUpdateDateTimeRequiresPhone(t *testing.T) {
	f := newFixture(t)

	_, err := f.appointments.UpdateDateTime(context.Background(), DateTimeUpdateRequest{PhoneNumber: " ", Language: "ku"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, "Hejmara telefonê pêwîst e.", appErr.Message)
}

func TestUpdateDateTimeNotificationFailureIsHard(t *testing.T) {
	f := newFixture(t)
	id := submitQuick(t, f, "555", "Ana")
	f.gateway.fail = func(notify.Message) error { return fmt.Errorf("timeout") }

	_, err := f.appointments.UpdateDateTime(context.Background(), DateTimeUpdateRequest{PhoneNumber: "555", PreferredDate: ptr("2025-03-10")})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotification(err))

	// the preference was written before the notice failed
	assert.Equal(t, "2025-03-10", *loadAppointments(t, f)[id].PreferredDate)
}

func TestUpdateDateTimeQueryFailure(t *testing.T) {
	f := newFixture(t)
	f.store.queryErr = errors.New("connection reset")

	_, err := f.appointments.UpdateDateTime(context.Background(), DateTimeUpdateRequest{PhoneNumber: "555"})
	assert.True(t, apperrors.IsPersistence(err))
	assert.Zero(t, f.store.updates)
}

func TestListReturnsNewestFiftyFirst(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 55; i++ {
		submitQuick(t, f, fmt.Sprintf("555-%02d", i), fmt.Sprintf("caller-%02d", i))
	}

	list, err := f.appointments.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, ListLimit)
	assert.Equal(t, "caller-54", list[0].Name)
	for i := 1; i < len(list); i++ {
		assert.True(t, list[i-1].SubmittedAt.After(list[i].SubmittedAt))
	}
}

func TestListEmpty(t *testing.T) {
	f := newFixture(t)

	list, err := f.appointments.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
