package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"xconsultation/internal/database"
)

// HealthResult describes service liveness
type HealthResult struct {
	Status   string
	Service  string
	Database string
}

// HealthService implements the health check
type HealthService struct {
	db      *gorm.DB
	service string
	log     *zap.Logger
}

// NewHealthService creates a new health service
func NewHealthService(db *gorm.DB, service string, log *zap.Logger) *HealthService {
	return &HealthService{db: db, service: service, log: log.Named("health")}
}

// Check pings the database. The service reports "degraded" rather than failing when it is unreachable.
func (s *HealthService) Check(ctx context.Context) (*HealthResult, error) {
	result := &HealthResult{
		Status:   "healthy",
		Service:  s.service,
		Database: "ok",
	}
	if err := database.HealthCheck(ctx, s.db); err != nil {
		s.log.Warn("database health check failed", zap.Error(err))
		result.Status = "degraded"
		result.Database = "unavailable"
	}
	return result, nil
}
