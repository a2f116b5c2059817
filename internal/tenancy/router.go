package tenancy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"infinite-experiment/coursehub/internal/logging"
	"infinite-experiment/coursehub/internal/metrics"

	"golang.org/x/sync/singleflight"
)

// Router is the single entry point for obtaining a course database handle.
type Router struct {
	cache     *ConnectionCache
	store     CredentialStore
	connector Connector
	metrics   *metrics.MetricsRegistry
	group     singleflight.Group

	// generations is bumped by Invalidate so an establish that read
	// credentials before a rotation never caches its handle.
	mu          sync.Mutex
	generations map[string]uint64
}

// maxEstablishAttempts bounds retries when invalidations keep racing a
// connection attempt.
const maxEstablishAttempts = 3

// NewRouter wires a router. metricsReg may be nil.
func NewRouter(cache *ConnectionCache, store CredentialStore, connector Connector, metricsReg *metrics.MetricsRegistry) *Router {
	if cache == nil {
		cache = NewConnectionCache()
	}
	return &Router{
		cache:       cache,
		store:       store,
		connector:   connector,
		metrics:     metricsReg,
		generations: make(map[string]uint64),
	}
}

// Resolve returns the cached handle for a course, establishing it on first
// use. Every failure wraps ErrTenantUnavailable; nothing is retried here.
func (r *Router) Resolve(ctx context.Context, courseID string) (*Handle, error) {
	if h, ok := r.cache.Get(courseID); ok {
		r.observe("hit")
		return h, nil
	}

	// Concurrent first resolutions share one connection attempt. The attempt
	// is detached from the first caller's cancellation and bounded by the
	// connector's own timeout instead.
	v, err, _ := r.group.Do(courseID, func() (interface{}, error) {
		return r.establish(context.WithoutCancel(ctx), courseID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Handle), nil
}

func (r *Router) establish(ctx context.Context, courseID string) (*Handle, error) {
	for attempt := 1; ; attempt++ {
		h, stale, err := r.establishOnce(ctx, courseID)
		if !stale {
			return h, err
		}
		r.observe("stale")
		logging.Info("Discarded course database handle opened before invalidation",
			"course_id", courseID,
			"attempt", attempt,
		)
		if attempt >= maxEstablishAttempts {
			return nil, fmt.Errorf("%w: credentials changed during connect", ErrTenantUnreachable)
		}
	}
}

// establishOnce reports stale when the course was invalidated while the
// connection was being opened; the new handle is closed in that case.
func (r *Router) establishOnce(ctx context.Context, courseID string) (*Handle, bool, error) {
	if h, ok := r.cache.Get(courseID); ok {
		r.observe("hit")
		return h, false, nil
	}
	r.observe("miss")
	gen := r.generation(courseID)

	creds, err := r.store.GetCredentials(ctx, courseID)
	if err != nil {
		r.observe("store_error")
		logging.Error("Credential lookup failed", "course_id", courseID, "error", err.Error())
		return nil, false, fmt.Errorf("%w: credential lookup: %v", ErrTenantUnavailable, err)
	}
	if creds == nil {
		r.observe("not_configured")
		logging.Warn("No credentials found for course", "course_id", courseID)
		return nil, false, ErrTenantNotConfigured
	}

	start := time.Now()
	db, err := r.connector.Connect(ctx, *creds)
	if r.metrics != nil {
		r.metrics.TenantConnectDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		r.observe("unreachable")
		logging.Error("Failed to connect to course database",
			"course_id", courseID,
			"endpoint", creds.Endpoint,
			"error", err.Error(),
		)
		return nil, false, fmt.Errorf("%w: %v", ErrTenantUnreachable, err)
	}

	fresh := NewHandle(courseID, db)
	r.mu.Lock()
	if r.generations[courseID] != gen {
		r.mu.Unlock()
		_ = fresh.Close()
		return nil, true, nil
	}
	h := r.cache.Put(courseID, fresh)
	r.mu.Unlock()

	r.updateOpenGauge()
	logging.Info("Connected to course database", "course_id", courseID)
	return h, false, nil
}

// Invalidate drops the cached handle so the next Resolve reads fresh
// credentials. Used on credential rotation.
func (r *Router) Invalidate(courseID string) {
	r.mu.Lock()
	r.generations[courseID]++
	r.group.Forget(courseID)
	dropped := r.cache.Invalidate(courseID)
	r.mu.Unlock()

	if dropped {
		logging.Info("Invalidated course database handle", "course_id", courseID)
	}
	r.updateOpenGauge()
}

// Close flushes every cached handle. Called on shutdown.
func (r *Router) Close() error {
	err := r.cache.CloseAll()
	r.updateOpenGauge()
	return err
}

func (r *Router) OpenConnections() int { return r.cache.Len() }

func (r *Router) generation(courseID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generations[courseID]
}

func (r *Router) observe(outcome string) {
	if r.metrics != nil {
		r.metrics.TenantResolveTotal.WithLabelValues(outcome).Inc()
	}
}

func (r *Router) updateOpenGauge() {
	if r.metrics != nil {
		r.metrics.TenantOpenConnections.Set(float64(r.cache.Len()))
	}
}
