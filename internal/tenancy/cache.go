package tenancy

import (
	"errors"
	"sync"

	"gorm.io/gorm"
)

// Handle is a live connection pool bound to one course database.
type Handle struct {
	CourseID string
	db       *gorm.DB
	once     sync.Once
	closeErr error
}

func NewHandle(courseID string, db *gorm.DB) *Handle {
	return &Handle{CourseID: courseID, db: db}
}

func (h *Handle) DB() *gorm.DB { return h.db }

// Close releases the underlying pool. Safe to call more than once.
func (h *Handle) Close() error {
	h.once.Do(func() {
		if h.db == nil {
			return
		}
		sqlDB, err := h.db.DB()
		if err != nil {
			h.closeErr = err
			return
		}
		h.closeErr = sqlDB.Close()
	})
	return h.closeErr
}

// ConnectionCache maps course IDs to their canonical handle for the lifetime
// of the process. Entries leave only through Invalidate or CloseAll.
type ConnectionCache struct {
	mu      sync.RWMutex
	handles map[string]*Handle
}

func NewConnectionCache() *ConnectionCache {
	return &ConnectionCache{handles: make(map[string]*Handle)}
}

func (c *ConnectionCache) Get(courseID string) (*Handle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handles[courseID]
	return h, ok
}

// Put stores h unless a handle is already cached for the course, in which
// case h is closed and the cached handle is returned. The returned handle is
// always the canonical one.
func (c *ConnectionCache) Put(courseID string, h *Handle) *Handle {
	c.mu.Lock()
	existing, ok := c.handles[courseID]
	if !ok {
		c.handles[courseID] = h
	}
	c.mu.Unlock()

	if ok {
		if existing != h {
			_ = h.Close()
		}
		return existing
	}
	return h
}

// Invalidate drops and closes the cached handle of a course, if any.
func (c *ConnectionCache) Invalidate(courseID string) bool {
	c.mu.Lock()
	h, ok := c.handles[courseID]
	delete(c.handles, courseID)
	c.mu.Unlock()

	if ok {
		_ = h.Close()
	}
	return ok
}

// CloseAll empties the cache and closes every handle.
func (c *ConnectionCache) CloseAll() error {
	c.mu.Lock()
	handles := c.handles
	c.handles = make(map[string]*Handle)
	c.mu.Unlock()

	var errs []error
	for _, h := range handles {
		if err := h.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *ConnectionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handles)
}
