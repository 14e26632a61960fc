// Package server exposes the intake services over HTTP using the goa runtime.
package server

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	goahttp "goa.design/goa/v3/http"
	goa "goa.design/goa/v3/pkg"
)

// Server lists the HTTP handlers of the intake API
type Server struct {
	Mounts                 []*MountPoint
	SubmitContact          http.Handler
	SubmitQuickAppointment http.Handler
	UpdateDateTime         http.Handler
	ListAppointments       http.Handler
	Health                 http.Handler
}

// MountPoint holds information about the mounted endpoints
type MountPoint struct {
	// Method is the name of the service method served by the mounted HTTP handler
	Method string
	// Verb is the HTTP method used to match requests to the mounted handler
	Verb string
	// Pattern is the HTTP request path pattern used to match requests
	Pattern string
}

// Route paths
const (
	PathSubmitContact          = "/contact-form/submit"
	PathSubmitQuickAppointment = "/quick-appointment/quick-submit"
	PathUpdateDateTime         = "/quick-appointment/update-datetime"
	PathListAppointments       = "/quick-appointment/list"
	PathHealth                 = "/health"
)

type (
	decodeFunc   func(*http.Request) (any, error)
	encodeFunc   func(context.Context, http.ResponseWriter, any) error
	errorHandler func(context.Context, http.ResponseWriter, error)
)

// New instantiates HTTP handlers for all the endpoints
func New(
	e *Endpoints,
	mux goahttp.Muxer,
	decoder func(*http.Request) goahttp.Decoder,
	encoder func(context.Context, http.ResponseWriter) goahttp.Encoder,
	errhandler func(context.Context, http.ResponseWriter, error),
	log *zap.Logger,
) *Server {
	encodeError := EncodeError(encoder, log.Named("http"))
	return &Server{
		Mounts: []*MountPoint{
			{"SubmitContact", "POST", PathSubmitContact},
			{"SubmitQuickAppointment", "POST", PathSubmitQuickAppointment},
			{"UpdateDateTime", "POST", PathUpdateDateTime},
			{"ListAppointments", "GET", PathListAppointments},
			{"Health", "GET", PathHealth},
		},
		SubmitContact: newHandler("contact", "submit", e.SubmitContact,
			DecodeSubmitContactRequest(mux, decoder), EncodeSubmitContactResponse(encoder), encodeError, errhandler),
		SubmitQuickAppointment: newHandler("appointment", "quick_submit", e.SubmitQuickAppointment,
			DecodeQuickSubmitRequest(mux, decoder), EncodeQuickSubmitResponse(encoder), encodeError, errhandler),
		UpdateDateTime: newHandler("appointment", "update_datetime", e.UpdateDateTime,
			DecodeUpdateDateTimeRequest(mux, decoder), EncodeUpdateDateTimeResponse(encoder), encodeError, errhandler),
		ListAppointments: newHandler("appointment", "list", e.ListAppointments,
			decodeNoPayload(mux, decoder), EncodeListAppointmentsResponse(encoder), encodeError, errhandler),
		Health: newHandler("health", "check", e.Health,
			decodeNoPayload(mux, decoder), EncodeHealthResponse(encoder), encodeError, errhandler),
	}
}

// Use wraps the server handlers with the given middleware
func (s *Server) Use(m func(http.Handler) http.Handler) {
	s.SubmitContact = m(s.SubmitContact)
	s.SubmitQuickAppointment = m(s.SubmitQuickAppointment)
	s.UpdateDateTime = m(s.UpdateDateTime)
	s.ListAppointments = m(s.ListAppointments)
	s.Health = m(s.Health)
}

// UseSubmissions wraps only the handlers that accept submissions
func (s *Server) UseSubmissions(m func(http.Handler) http.Handler) {
	s.SubmitContact = m(s.SubmitContact)
	s.SubmitQuickAppointment = m(s.SubmitQuickAppointment)
	s.UpdateDateTime = m(s.UpdateDateTime)
}

// Mount configures the mux to serve the endpoints
func Mount(mux goahttp.Muxer, h *Server) {
	mux.Handle("POST", PathSubmitContact, h.SubmitContact.ServeHTTP)
	mux.Handle("POST", PathSubmitQuickAppointment, h.SubmitQuickAppointment.ServeHTTP)
	mux.Handle("POST", PathUpdateDateTime, h.UpdateDateTime.ServeHTTP)
	mux.Handle("GET", PathListAppointments, h.ListAppointments.ServeHTTP)
	mux.Handle("GET", PathHealth, h.Health.ServeHTTP)
}

// Mount configures the mux to serve the endpoints
func (s *Server) Mount(mux goahttp.Muxer) {
	Mount(mux, s)
}

// newHandler decodes the request, calls the endpoint and encodes the result or error
func newHandler(service, method string, endpoint goa.Endpoint, decodeRequest decodeFunc, encodeResponse encodeFunc, encodeError func(context.Context, http.ResponseWriter, error) error, errhandler errorHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), goahttp.AcceptTypeKey, r.Header.Get("Accept"))
		ctx = context.WithValue(ctx, goa.MethodKey, method)
		ctx = context.WithValue(ctx, goa.ServiceKey, service)

		payload, err := decodeRequest(r)
		if err != nil {
			if err := encodeError(ctx, w, err); err != nil && errhandler != nil {
				errhandler(ctx, w, err)
			}
			return
		}

		res, err := endpoint(ctx, payload)
		if err != nil {
			if err := encodeError(ctx, w, err); err != nil && errhandler != nil {
				errhandler(ctx, w, err)
			}
			return
		}
		if err := encodeResponse(ctx, w, res); err != nil && errhandler != nil {
			errhandler(ctx, w, err)
		}
	})
}
