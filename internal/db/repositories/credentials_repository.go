package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/models/entities"
	"infinite-experiment/coursehub/internal/tenancy"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrCredentialStoreUnavailable wraps every persistence failure of the
// credential store. It is never returned for a course that simply has no row.
var ErrCredentialStoreUnavailable = errors.New("credential store unavailable")

type CredentialsRepo struct {
	db     *sqlx.DB
	sealer *common.Sealer
}

var _ tenancy.CredentialStore = (*CredentialsRepo)(nil)

func NewCredentialsRepo(db *sqlx.DB, sealer *common.Sealer) *CredentialsRepo {
	return &CredentialsRepo{db: db, sealer: sealer}
}

// Put inserts or replaces the credentials of a course.
func (r *CredentialsRepo) Put(ctx context.Context, creds tenancy.Credentials) error {
	serviceKey, err := r.sealer.Seal(creds.ServiceKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCredentialStoreUnavailable, err)
	}

	_, err = r.db.ExecContext(ctx, constants.UpsertCourseCredentials,
		uuid.NewString(),
		creds.CourseID,
		creds.Endpoint,
		creds.PublicKey,
		serviceKey,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to store credentials: %v", ErrCredentialStoreUnavailable, err)
	}
	return nil
}

// GetCredentials returns (nil, nil) when the course has no credentials.
func (r *CredentialsRepo) GetCredentials(ctx context.Context, courseID string) (*tenancy.Credentials, error) {
	var row entities.CourseCredentials

	err := r.db.QueryRowxContext(ctx, constants.GetCourseCredentials, courseID).StructScan(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch credentials: %v", ErrCredentialStoreUnavailable, err)
	}

	serviceKey, err := r.sealer.Open(row.ServiceKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialStoreUnavailable, err)
	}

	return &tenancy.Credentials{
		CourseID:   row.CourseID,
		Endpoint:   row.Endpoint,
		PublicKey:  row.PublicKey,
		ServiceKey: serviceKey,
	}, nil
}

func (r *CredentialsRepo) Delete(ctx context.Context, courseID string) error {
	if _, err := r.db.ExecContext(ctx, constants.DeleteCourseCredentials, courseID); err != nil {
		return fmt.Errorf("%w: failed to delete credentials: %v", ErrCredentialStoreUnavailable, err)
	}
	return nil
}
