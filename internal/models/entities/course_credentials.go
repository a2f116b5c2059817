package entities

import "time"

// CourseCredentials is the registry row behind a course's database handle.
// ServiceKey may be sealed; see common.Sealer.
type CourseCredentials struct {
	CourseID   string    `db:"course_id"`
	Endpoint   string    `db:"endpoint_url"`
	PublicKey  string    `db:"public_key"`
	ServiceKey string    `db:"service_key"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
