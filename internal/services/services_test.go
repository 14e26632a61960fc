package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"xconsultation/internal/config"
	"xconsultation/internal/notify"
	"xconsultation/internal/store"
	"xconsultation/internal/testutil"
)

const (
	adminAddr  = "admin@example.com"
	senderAddr = "noreply@example.com"
)

// fakeGateway records messages; fail and panicWith control delivery outcome
type fakeGateway struct {
	mu        sync.Mutex
	sent      []notify.Message
	fail      func(notify.Message) error
	panicWith any
}

func (g *fakeGateway) Send(_ context.Context, msg notify.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, msg)
	if g.panicWith != nil {
		panic(g.panicWith)
	}
	if g.fail != nil {
		return g.fail(msg)
	}
	return nil
}

func (g *fakeGateway) messages() []notify.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]notify.Message(nil), g.sent...)
}

func failAlways(notify.Message) error { return errors.New("smtp: 421 service not available") }

// spyStore counts writes and can inject failures
type spyStore struct {
	store.RecordStore
	creates   int
	updates   int
	createErr error
	queryErr  error
	panicWith any
}

func (s *spyStore) Create(ctx context.Context, collection string, record store.Record) (string, error) {
	s.creates++
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	if s.createErr != nil {
		return "", s.createErr
	}
	return s.RecordStore.Create(ctx, collection, record)
}

func (s *spyStore) Query(ctx context.Context, q store.Query, dest any) error {
	if s.queryErr != nil {
		return s.queryErr
	}
	return s.RecordStore.Query(ctx, q, dest)
}

func (s *spyStore) UpdatePartial(ctx context.Context, collection, id string, fields map[string]any) error {
	s.updates++
	return s.RecordStore.UpdatePartial(ctx, collection, id, fields)
}

// steppingClock returns a clock that advances one minute per call
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

type fixture struct {
	store        *spyStore
	gateway      *fakeGateway
	mailer       *Mailer
	logs         *observer.ObservedLogs
	contacts     *ContactService
	appointments *AppointmentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	spy := &spyStore{RecordStore: store.NewGormStore(testutil.NewDB(t))}
	gateway := &fakeGateway{}
	clock := WithClock(steppingClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)))
	mailer := NewMailer(gateway, config.EmailConfig{AdminEmail: adminAddr, FromEmail: senderAddr}, clock)
	t.Cleanup(func() { _ = mailer.Wait(context.Background()) })

	return &fixture{
		store:        spy,
		gateway:      gateway,
		mailer:       mailer,
		logs:         logs,
		contacts:     NewContactService(spy, mailer, log, clock),
		appointments: NewAppointmentService(spy, mailer, log, clock),
	}
}

// settle waits for background notifications of earlier calls
func (f *fixture) settle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.mailer.Wait(ctx))
}

func ptr(s string) *string { return &s }

func TestGuardRecoversPanics(t *testing.T) {
	err := guard(func() error { panic("boom") })
	require.EqualError(t, err, "recovered panic: boom")
	require.NoError(t, guard(func() error { return nil }))
}
