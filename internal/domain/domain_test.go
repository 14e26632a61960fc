package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"", LanguageTurkish},
		{"tr", LanguageTurkish},
		{"en", LanguageEnglish},
		{" EN ", LanguageEnglish},
		{"en-GB", LanguageEnglish},
		{"fr-CA", LanguageFrench},
		{"ku", LanguageKurdish},
		{"de", LanguageTurkish},
		{"not a tag!", LanguageTurkish},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLanguage(tt.in))
		})
	}
}

func TestAppointmentStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, AppointmentStatus("archived").Valid())
}

func TestBeforeCreateFillsDefaults(t *testing.T) {
	appt := &QuickAppointment{PhoneNumber: "555", Name: "Ana", Message: "hi", Language: "fr-FR"}
	assert.NoError(t, appt.BeforeCreate(nil))

	assert.NotEmpty(t, appt.ID)
	assert.False(t, appt.SubmittedAt.IsZero())
	assert.Equal(t, StatusPending, appt.Status)
	assert.Equal(t, LanguageFrench, appt.Language)
	assert.Nil(t, appt.PreferredDate)

	form := &ContactSubmission{ID: "fixed"}
	assert.NoError(t, form.BeforeCreate(nil))
	assert.Equal(t, "fixed", form.RecordID())
	assert.Equal(t, LanguageTurkish, form.Language)
}

func TestLanguageFromAcceptHeader(t *testing.T) {
	assert.Equal(t, LanguageEnglish, LanguageFromAcceptHeader("en-US,en;q=0.9,tr;q=0.8"))
	assert.Equal(t, LanguageFrench, LanguageFromAcceptHeader("fr-FR"))
	assert.Equal(t, LanguageTurkish, LanguageFromAcceptHeader(""))
	assert.Equal(t, LanguageTurkish, LanguageFromAcceptHeader("ja"))
}
