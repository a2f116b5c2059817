package tenancy

import (
	"context"
	"fmt"
)

// Credentials are the connection parameters of one course database.
// ServiceKey is privileged: it never leaves the router layer and is
// redacted from every string form.
type Credentials struct {
	CourseID   string `json:"courseId"`
	Endpoint   string `json:"endpoint"`
	PublicKey  string `json:"publicKey"`
	ServiceKey string `json:"-"`
}

func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{CourseID:%s Endpoint:%s ServiceKey:[REDACTED]}", c.CourseID, c.Endpoint)
}

func (c Credentials) GoString() string { return c.String() }

// CredentialStore looks up course credentials. Absent credentials are
// (nil, nil); an error means the store itself failed.
type CredentialStore interface {
	GetCredentials(ctx context.Context, courseID string) (*Credentials, error)
}
