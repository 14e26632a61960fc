package server

import (
	"context"

	goa "goa.design/goa/v3/pkg"

	"xconsultation/internal/domain"
	"xconsultation/internal/services"
)

// ContactService submits contact forms
type ContactService interface {
	Submit(ctx context.Context, req services.ContactRequest) (*services.ContactResult, error)
}

// AppointmentService manages quick appointments
type AppointmentService interface {
	SubmitQuick(ctx context.Context, req services.QuickAppointmentRequest) (*services.QuickAppointmentResult, error)
	UpdateDateTime(ctx context.Context, req services.DateTimeUpdateRequest) (*services.DateTimeUpdateResult, error)
	List(ctx context.Context) ([]domain.QuickAppointment, error)
}

// HealthService reports liveness
type HealthService interface {
	Check(ctx context.Context) (*services.HealthResult, error)
}

// Endpoints wraps the service methods in transport-independent goa endpoints
type Endpoints struct {
	SubmitContact          goa.Endpoint
	SubmitQuickAppointment goa.Endpoint
	UpdateDateTime         goa.Endpoint
	ListAppointments       goa.Endpoint
	Health                 goa.Endpoint
}

// NewEndpoints wraps the methods of the services
func NewEndpoints(contact ContactService, appointments AppointmentService, health HealthService) *Endpoints {
	return &Endpoints{
		SubmitContact:          NewSubmitContactEndpoint(contact),
		SubmitQuickAppointment: NewSubmitQuickAppointmentEndpoint(appointments),
		UpdateDateTime:         NewUpdateDateTimeEndpoint(appointments),
		ListAppointments:       NewListAppointmentsEndpoint(appointments),
		Health:                 NewHealthEndpoint(health),
	}
}

// Use applies the given middleware to all the endpoints
func (e *Endpoints) Use(m func(goa.Endpoint) goa.Endpoint) {
	e.SubmitContact = m(e.SubmitContact)
	e.SubmitQuickAppointment = m(e.SubmitQuickAppointment)
	e.UpdateDateTime = m(e.UpdateDateTime)
	e.ListAppointments = m(e.ListAppointments)
	e.Health = m(e.Health)
}

// NewSubmitContactEndpoint returns an endpoint calling ContactService.Submit
func NewSubmitContactEndpoint(s ContactService) goa.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		p := req.(*services.ContactRequest)
		return s.Submit(ctx, *p)
	}
}

// NewSubmitQuickAppointmentEndpoint returns an endpoint calling AppointmentService.SubmitQuick
func NewSubmitQuickAppointmentEndpoint(s AppointmentService) goa.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		p := req.(*services.QuickAppointmentRequest)
		return s.SubmitQuick(ctx, *p)
	}
}

// NewUpdateDateTimeEndpoint returns an endpoint calling AppointmentService.UpdateDateTime
func NewUpdateDateTimeEndpoint(s AppointmentService) goa.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		p := req.(*services.DateTimeUpdateRequest)
		return s.UpdateDateTime(ctx, *p)
	}
}

// NewListAppointmentsEndpoint returns an endpoint calling AppointmentService.List
func NewListAppointmentsEndpoint(s AppointmentService) goa.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		return s.List(ctx)
	}
}

// NewHealthEndpoint returns an endpoint calling HealthService.Check
func NewHealthEndpoint(s HealthService) goa.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		return s.Check(ctx)
	}
}
