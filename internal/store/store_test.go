package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xconsultation/internal/domain"
	"xconsultation/internal/testutil"
)

func seedAppointments(t *testing.T, s *GormStore, phone string, times ...time.Time) []string {
	t.Helper()
	ids := make([]string, 0, len(times))
	for i, ts := range times {
		id, err := s.Create(context.Background(), domain.CollectionQuickAppointments, &domain.QuickAppointment{
			PhoneNumber: phone,
			Name:        fmt.Sprintf("caller-%d", i),
			Message:     "call me",
			SubmittedAt: ts,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestCreateAssignsID(t *testing.T) {
	s := NewGormStore(testutil.NewDB(t))

	form := &domain.ContactSubmission{
		Name:        "Ana",
		PhoneNumber: "555-1",
		Email:       "a@x.com",
		Topic:       "pricing",
		Message:     "hi",
		Language:    domain.LanguageEnglish,
	}
	id, err := s.Create(context.Background(), domain.CollectionContactForms, form)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, form.ID, id)

	var stored []domain.ContactSubmission
	require.NoError(t, s.Query(context.Background(), Query{
		Collection: domain.CollectionContactForms,
		Field:      "id",
		Value:      id,
	}, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, domain.LanguageEnglish, stored[0].Language)
	assert.Equal(t, "pricing", stored[0].Topic)
}

func TestQueryOrdersAndLimits(t *testing.T) {
	s := NewGormStore(testutil.NewDB(t))
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	ids := seedAppointments(t, s, "555", base, base.Add(time.Hour), base.Add(2*time.Hour))
	seedAppointments(t, s, "777", base.Add(3*time.Hour))

	var latest []domain.QuickAppointment
	require.NoError(t, s.Query(context.Background(), Query{
		Collection: domain.CollectionQuickAppointments,
		Field:      domain.ColumnPhoneNumber,
		Value:      "555",
		OrderBy:    domain.ColumnSubmittedAt,
		Descending: true,
		Limit:      1,
	}, &latest))
	require.Len(t, latest, 1)
	assert.Equal(t, ids[2], latest[0].ID)

	var all []domain.QuickAppointment
	require.NoError(t, s.Query(context.Background(), Query{
		Collection: domain.CollectionQuickAppointments,
		OrderBy:    domain.ColumnSubmittedAt,
		Descending: true,
	}, &all))
	require.Len(t, all, 4)
	assert.Equal(t, "777", all[0].PhoneNumber)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].SubmittedAt.After(all[i-1].SubmittedAt))
	}
}

func TestUpdatePartialTouchesOnlyGivenColumns(t *testing.T) {
	s := NewGormStore(testutil.NewDB(t))
	submitted := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	ids := seedAppointments(t, s, "555", submitted)

	err := s.UpdatePartial(context.Background(), domain.CollectionQuickAppointments, ids[0], map[string]any{
		domain.ColumnPreferredDate: "2025-03-10",
		domain.ColumnPreferredTime: "14:00",
	})
	require.NoError(t, err)

	var got []domain.QuickAppointment
	require.NoError(t, s.Query(context.Background(), Query{
		Collection: domain.CollectionQuickAppointments,
		Field:      "id",
		Value:      ids[0],
	}, &got))
	require.Len(t, got, 1)
	require.NotNil(t, got[0].PreferredDate)
	assert.Equal(t, "2025-03-10", *got[0].PreferredDate)
	assert.Equal(t, "14:00", *got[0].PreferredTime)
	assert.Equal(t, "caller-0", got[0].Name)
	assert.Equal(t, domain.StatusPending, got[0].Status)
	assert.True(t, submitted.Equal(got[0].SubmittedAt))
}

func TestUpdatePartialUnknownID(t *testing.T) {
	s := NewGormStore(testutil.NewDB(t))

	err := s.UpdatePartial(context.Background(), domain.CollectionQuickAppointments, "missing", map[string]any{
		domain.ColumnPreferredDate: "2025-03-10",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQueryCanceledContext(t *testing.T) {
	s := NewGormStore(testutil.NewDB(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var got []domain.QuickAppointment
	err := s.Query(ctx, Query{Collection: domain.CollectionQuickAppointments}, &got)
	assert.Error(t, err)
}
