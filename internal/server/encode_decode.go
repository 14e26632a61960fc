package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	goahttp "goa.design/goa/v3/http"
	goa "goa.design/goa/v3/pkg"

	"xconsultation/internal/domain"
	"xconsultation/internal/services"
)

// decodeBody decodes the JSON request body into body
func decodeBody(r *http.Request, decoder func(*http.Request) goahttp.Decoder, body any) error {
	err := decoder(r).Decode(body)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return goa.MissingPayloadError()
	}
	var gerr *goa.ServiceError
	if errors.As(err, &gerr) {
		return gerr
	}
	return goa.DecodePayloadError(err.Error())
}

// DecodeSubmitContactRequest returns a decoder for requests sent to the submit contact endpoint
func DecodeSubmitContactRequest(_ goahttp.Muxer, decoder func(*http.Request) goahttp.Decoder) func(*http.Request) (any, error) {
	return func(r *http.Request) (any, error) {
		var body SubmitContactRequestBody
		if err := decodeBody(r, decoder, &body); err != nil {
			return nil, err
		}
		if err := body.Validate(); err != nil {
			return nil, err
		}
		return NewContactRequest(&body), nil
	}
}

// DecodeQuickSubmitRequest returns a decoder for requests sent to the quick submit endpoint
func DecodeQuickSubmitRequest(_ goahttp.Muxer, decoder func(*http.Request) goahttp.Decoder) func(*http.Request) (any, error) {
	return func(r *http.Request) (any, error) {
		var body QuickSubmitRequestBody
		if err := decodeBody(r, decoder, &body); err != nil {
			return nil, err
		}
		return NewQuickAppointmentRequest(&body), nil
	}
}

// DecodeUpdateDateTimeRequest returns a decoder for requests sent to the update datetime endpoint
func DecodeUpdateDateTimeRequest(_ goahttp.Muxer, decoder func(*http.Request) goahttp.Decoder) func(*http.Request) (any, error) {
	return func(r *http.Request) (any, error) {
		var body UpdateDateTimeRequestBody
		if err := decodeBody(r, decoder, &body); err != nil {
			return nil, err
		}
		return NewDateTimeUpdateRequest(&body), nil
	}
}

// decodeNoPayload is used by endpoints without a request body
func decodeNoPayload(_ goahttp.Muxer, _ func(*http.Request) goahttp.Decoder) func(*http.Request) (any, error) {
	return func(*http.Request) (any, error) {
		return nil, nil
	}
}

// EncodeSubmitContactResponse returns an encoder for responses of the submit contact endpoint
func EncodeSubmitContactResponse(encoder func(context.Context, http.ResponseWriter) goahttp.Encoder) func(context.Context, http.ResponseWriter, any) error {
	return func(ctx context.Context, w http.ResponseWriter, v any) error {
		res := v.(*services.ContactResult)
		enc := encoder(ctx, w)
		body := &SubmitContactResponseBody{Message: res.Message, FormID: res.FormID}
		w.WriteHeader(http.StatusOK)
		return enc.Encode(body)
	}
}

// EncodeQuickSubmitResponse returns an encoder for responses of the quick submit endpoint
func EncodeQuickSubmitResponse(encoder func(context.Context, http.ResponseWriter) goahttp.Encoder) func(context.Context, http.ResponseWriter, any) error {
	return func(ctx context.Context, w http.ResponseWriter, v any) error {
		res := v.(*services.QuickAppointmentResult)
		enc := encoder(ctx, w)
		body := &QuickSubmitResponseBody{
			Success:       true,
			Message:       res.Message,
			AppointmentID: res.AppointmentID,
			PhoneNumber:   res.PhoneNumber,
		}
		w.WriteHeader(http.StatusOK)
		return enc.Encode(body)
	}
}

// EncodeUpdateDateTimeResponse returns an encoder for responses of the update datetime endpoint
func EncodeUpdateDateTimeResponse(encoder func(context.Context, http.ResponseWriter) goahttp.Encoder) func(context.Context, http.ResponseWriter, any) error {
	return func(ctx context.Context, w http.ResponseWriter, v any) error {
		res := v.(*services.DateTimeUpdateResult)
		enc := encoder(ctx, w)
		w.WriteHeader(http.StatusOK)
		return enc.Encode(&UpdateDateTimeResponseBody{Success: true, Message: res.Message})
	}
}

// EncodeListAppointmentsResponse returns an encoder for responses of the list endpoint
func EncodeListAppointmentsResponse(encoder func(context.Context, http.ResponseWriter) goahttp.Encoder) func(context.Context, http.ResponseWriter, any) error {
	return func(ctx context.Context, w http.ResponseWriter, v any) error {
		res := v.([]domain.QuickAppointment)
		enc := encoder(ctx, w)
		body := make([]*AppointmentResponseBody, len(res))
		for i := range res {
			body[i] = NewAppointmentResponseBody(&res[i])
		}
		w.WriteHeader(http.StatusOK)
		return enc.Encode(body)
	}
}

// EncodeHealthResponse returns an encoder for responses of the health endpoint
func EncodeHealthResponse(encoder func(context.Context, http.ResponseWriter) goahttp.Encoder) func(context.Context, http.ResponseWriter, any) error {
	return func(ctx context.Context, w http.ResponseWriter, v any) error {
		res := v.(*services.HealthResult)
		enc := encoder(ctx, w)
		w.WriteHeader(http.StatusOK)
		return enc.Encode(&HealthResponseBody{Status: res.Status, Service: res.Service, Database: res.Database})
	}
}
