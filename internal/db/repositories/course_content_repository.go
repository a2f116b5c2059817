package repositories

import (
	"context"
	"fmt"

	"infinite-experiment/coursehub/internal/logging"
	"infinite-experiment/coursehub/internal/metrics"
	"infinite-experiment/coursehub/internal/tenancy"

	"gorm.io/gorm"
)

// HandleResolver hands out the database handle of a course. tenancy.Router
// is the production implementation.
type HandleResolver interface {
	Resolve(ctx context.Context, courseID string) (*tenancy.Handle, error)
}

// CourseContentRepo runs every query against the database of the course
// named by its first argument. When the course database cannot be resolved,
// reads return an empty result and writes return nil, both alongside an
// error wrapping tenancy.ErrTenantUnavailable. Callers choose whether to
// degrade or fail.
type CourseContentRepo struct {
	resolver HandleResolver
	metrics  *metrics.MetricsRegistry
}

func NewCourseContentRepo(resolver HandleResolver, metricsReg *metrics.MetricsRegistry) *CourseContentRepo {
	return &CourseContentRepo{resolver: resolver, metrics: metricsReg}
}

func (r *CourseContentRepo) conn(ctx context.Context, courseID string) (*gorm.DB, error) {
	h, err := r.resolver.Resolve(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return h.DB().WithContext(ctx), nil
}

func (r *CourseContentRepo) queryFailed(operation, courseID string, err error) error {
	if r.metrics != nil {
		r.metrics.TenantQueryErrorsTotal.WithLabelValues(operation).Inc()
	}
	logging.Error("Course database query failed",
		"course_id", courseID,
		"operation", operation,
		"error", err.Error(),
	)
	return fmt.Errorf("failed to %s: %w", operation, err)
}
