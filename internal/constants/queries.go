package constants

const (
	UpsertCourseCredentials = `
	INSERT INTO course_credentials (id, course_id, endpoint_url, public_key, service_key, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT (course_id) DO UPDATE SET
		endpoint_url = EXCLUDED.endpoint_url,
		public_key   = EXCLUDED.public_key,
		service_key  = EXCLUDED.service_key,
		updated_at   = CURRENT_TIMESTAMP
	`

	GetCourseCredentials = `
	SELECT course_id, endpoint_url, public_key, service_key, created_at, updated_at
	FROM course_credentials WHERE course_id = $1
	`

	DeleteCourseCredentials = `
	DELETE FROM course_credentials WHERE course_id = $1
	`
)
