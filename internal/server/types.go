package server

import (
	"strings"
	"time"

	goa "goa.design/goa/v3/pkg"

	"xconsultation/internal/domain"
	"xconsultation/internal/services"
	apperrors "xconsultation/pkg/errors"
)

// SubmitContactRequestBody is the body of POST /contact-form/submit.
// PhoneNumber is accepted as an alias of Phone.
type SubmitContactRequestBody struct {
	Name        *string `json:"name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Email       *string `json:"email,omitempty"`
	Topic       *string `json:"topic,omitempty"`
	Message     *string `json:"message,omitempty"`
	Language    *string `json:"language,omitempty"`
}

// QuickSubmitRequestBody is the body of POST /quick-appointment/quick-submit.
// Required fields are checked by the service so that its rule message is returned.
type QuickSubmitRequestBody struct {
	Phone       *string `json:"phone,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Name        *string `json:"name,omitempty"`
	Message     *string `json:"message,omitempty"`
	Language    *string `json:"language,omitempty"`
}

// UpdateDateTimeRequestBody is the body of POST /quick-appointment/update-datetime
type UpdateDateTimeRequestBody struct {
	Phone         *string `json:"phone,omitempty"`
	PhoneNumber   *string `json:"phoneNumber,omitempty"`
	PreferredDate *string `json:"preferredDate,omitempty"`
	PreferredTime *string `json:"preferredTime,omitempty"`
	Language      *string `json:"language,omitempty"`
}

// SubmitContactResponseBody is the success body of POST /contact-form/submit
type SubmitContactResponseBody struct {
	Message string `json:"message"`
	FormID  string `json:"formId"`
}

// QuickSubmitResponseBody is the success body of POST /quick-appointment/quick-submit
type QuickSubmitResponseBody struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	AppointmentID string `json:"appointmentId"`
	PhoneNumber   string `json:"phoneNumber"`
}

// UpdateDateTimeResponseBody is the success body of POST /quick-appointment/update-datetime
type UpdateDateTimeResponseBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AppointmentResponseBody is one element of GET /quick-appointment/list
type AppointmentResponseBody struct {
	ID            string  `json:"id"`
	PhoneNumber   string  `json:"phoneNumber"`
	Name          string  `json:"name"`
	Message       string  `json:"message"`
	PreferredDate *string `json:"preferredDate"`
	PreferredTime *string `json:"preferredTime"`
	Language      string  `json:"language"`
	SubmittedAt   string  `json:"submittedAt"`
	Status        string  `json:"status"`
}

// HealthResponseBody is the body of GET /health
type HealthResponseBody struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

// ErrorResponseBody is the body of every error response
type ErrorResponseBody struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
	ID      string `json:"id"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// fieldValidator collects goa validation errors and remembers the first offending field
type fieldValidator struct {
	err   error
	field string
}

func (v *fieldValidator) fail(field string, err error) {
	if err == nil {
		return
	}
	if v.field == "" {
		v.field = field
	}
	v.err = goa.MergeErrors(v.err, err)
}

func (v *fieldValidator) require(field string, value *string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		v.fail(field, goa.MissingFieldError(field, "body"))
	}
}

func (v *fieldValidator) result() error {
	if v.err == nil {
		return nil
	}
	return &apperrors.AppError{
		Code:    apperrors.ErrCodeValidation,
		Message: v.err.Error(),
		Field:   v.field,
		Err:     v.err,
	}
}

// Validate runs the validations defined on SubmitContactRequestBody
func (body *SubmitContactRequestBody) Validate() error {
	var v fieldValidator
	v.require("name", body.Name)
	v.require("phone", firstPresent(body.Phone, body.PhoneNumber))
	v.require("email", body.Email)
	v.require("topic", body.Topic)
	v.require("message", body.Message)
	if body.Email != nil && strings.TrimSpace(*body.Email) != "" {
		v.fail("email", goa.ValidateFormat("body.email", strings.TrimSpace(*body.Email), goa.FormatEmail))
	}
	return v.result()
}

// NewContactRequest builds the service payload from a validated body
func NewContactRequest(body *SubmitContactRequestBody) *services.ContactRequest {
	return &services.ContactRequest{
		Name:        deref(body.Name),
		PhoneNumber: deref(firstPresent(body.Phone, body.PhoneNumber)),
		Email:       deref(body.Email),
		Topic:       deref(body.Topic),
		Message:     deref(body.Message),
		Language:    deref(body.Language),
	}
}

// NewQuickAppointmentRequest builds the service payload
func NewQuickAppointmentRequest(body *QuickSubmitRequestBody) *services.QuickAppointmentRequest {
	return &services.QuickAppointmentRequest{
		PhoneNumber: deref(firstPresent(body.Phone, body.PhoneNumber)),
		Name:        deref(body.Name),
		Message:     deref(body.Message),
		Language:    deref(body.Language),
	}
}

// NewDateTimeUpdateRequest builds the service payload
func NewDateTimeUpdateRequest(body *UpdateDateTimeRequestBody) *services.DateTimeUpdateRequest {
	return &services.DateTimeUpdateRequest{
		PhoneNumber:   deref(firstPresent(body.Phone, body.PhoneNumber)),
		PreferredDate: body.PreferredDate,
		PreferredTime: body.PreferredTime,
		Language:      deref(body.Language),
	}
}

// NewAppointmentResponseBody converts a stored appointment
func NewAppointmentResponseBody(a *domain.QuickAppointment) *AppointmentResponseBody {
	return &AppointmentResponseBody{
		ID:            a.ID,
		PhoneNumber:   a.PhoneNumber,
		Name:          a.Name,
		Message:       a.Message,
		PreferredDate: a.PreferredDate,
		PreferredTime: a.PreferredTime,
		Language:      string(a.Language),
		SubmittedAt:   a.SubmittedAt.UTC().Format(time.RFC3339),
		Status:        string(a.Status),
	}
}

// firstPresent prefers a non-blank value, so {"phone":"", "phoneNumber":"555"} resolves to "555"
func firstPresent(values ...*string) *string {
	var fallback *string
	for _, v := range values {
		if v == nil {
			continue
		}
		if strings.TrimSpace(*v) != "" {
			return v
		}
		if fallback == nil {
			fallback = v
		}
	}
	return fallback
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
