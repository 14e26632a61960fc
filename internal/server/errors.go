package server

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	goahttp "goa.design/goa/v3/http"
	goamiddleware "goa.design/goa/v3/middleware"
	goa "goa.design/goa/v3/pkg"

	"xconsultation/internal/domain"
	"xconsultation/internal/i18n"
	apperrors "xconsultation/pkg/errors"
)

// Error names carried in the response body
const (
	ErrNameBadRequest  = "bad_request"
	ErrNameNotFound    = "not_found"
	ErrNameRateLimited = "rate_limited"
	ErrNameInternal    = "internal"
)

// NewServiceError converts err into a goa service error and the HTTP status it maps to.
// Only AppError messages reach the caller; anything else is reported generically.
func NewServiceError(err error) (*goa.ServiceError, string, int) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		name, status, fault := ErrNameInternal, http.StatusInternalServerError, true
		switch appErr.Code {
		case apperrors.ErrCodeValidation:
			name, status, fault = ErrNameBadRequest, http.StatusBadRequest, false
		case apperrors.ErrCodeNotFound:
			name, status, fault = ErrNameNotFound, http.StatusNotFound, false
		case apperrors.ErrCodeRateLimited:
			name, status, fault = ErrNameRateLimited, http.StatusTooManyRequests, false
		}
		se := goa.NewServiceError(err, name, false, status == http.StatusTooManyRequests, fault)
		se.Message = appErr.Message
		return se, appErr.Field, status
	}

	var gerr *goa.ServiceError
	if errors.As(err, &gerr) && !gerr.Fault {
		// decoding and payload validation failures
		se := goa.NewServiceError(err, ErrNameBadRequest, false, false, false)
		se.Message = gerr.Message
		return se, "", http.StatusBadRequest
	}

	se := goa.NewServiceError(err, ErrNameInternal, false, false, true)
	se.Message = i18n.Message(i18n.GenericError, domain.DefaultLanguage)
	return se, "", http.StatusInternalServerError
}

// EncodeError returns an encoder for errors returned by any endpoint
func EncodeError(encoder func(context.Context, http.ResponseWriter) goahttp.Encoder, log *zap.Logger) func(context.Context, http.ResponseWriter, error) error {
	return func(ctx context.Context, w http.ResponseWriter, err error) error {
		se, field, status := NewServiceError(err)

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("error_id", se.ID),
			zap.Error(err),
		}
		if reqID, ok := ctx.Value(goamiddleware.RequestIDKey).(string); ok {
			fields = append(fields, zap.String("request_id", reqID))
		}
		if status >= http.StatusInternalServerError {
			log.Error("request failed", fields...)
		} else {
			log.Info("request rejected", fields...)
		}

		enc := encoder(ctx, w)
		w.Header().Set("goa-error", se.Name)
		w.WriteHeader(status)
		return enc.Encode(&ErrorResponseBody{
			Success: false,
			Name:    se.Name,
			ID:      se.ID,
			Message: se.Message,
			Field:   field,
		})
	}
}
