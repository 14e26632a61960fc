package server

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	goahttp "goa.design/goa/v3/http"

	"xconsultation/internal/domain"
	"xconsultation/internal/i18n"
	"xconsultation/internal/metrics"
	"xconsultation/internal/ratelimit"
	apperrors "xconsultation/pkg/errors"
)

// Limiter decides whether a keyed request is within quota
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects requests over quota with 429. Each route has its own quota per client IP.
// When the limiter itself fails the request is let through and a warning is logged.
func RateLimit(limiter Limiter, trusted *ratelimit.TrustedProxies, encoder func(context.Context, http.ResponseWriter) goahttp.Encoder, log *zap.Logger) func(http.Handler) http.Handler {
	log = log.Named("ratelimit")
	encodeError := EncodeError(encoder, log)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ratelimit.ClientIP(r, trusted)
			allowed, err := limiter.Allow(r.Context(), r.URL.Path+":"+ip)
			if err != nil {
				log.Warn("rate limiter unavailable, allowing request", zap.String("path", r.URL.Path), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				metrics.RecordRateLimited(r.URL.Path)
				lang := domain.LanguageFromAcceptHeader(r.Header.Get("Accept-Language"))
				ctx := context.WithValue(r.Context(), goahttp.AcceptTypeKey, r.Header.Get("Accept"))
				_ = encodeError(ctx, w, apperrors.New(apperrors.ErrCodeRateLimited, i18n.Message(i18n.RateLimited, lang)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
