package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "infinite-experiment/coursehub/internal/models/gorm"

	"gorm.io/gorm"
)

// CourseRepository manages the registry side of courses
type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// CreateWithCredentials stores a course and its database credentials in one
// transaction, so a course never exists half configured by accident. creds
// may be nil for a course whose database is provisioned later.
func (r *CourseRepository) CreateWithCredentials(ctx context.Context, course *gormModels.Course, creds *gormModels.CourseCredentials) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(course).Error; err != nil {
			return fmt.Errorf("failed to create course: %w", err)
		}
		if creds == nil {
			return nil
		}
		creds.CourseID = course.ID
		if err := tx.Create(creds).Error; err != nil {
			return fmt.Errorf("failed to store course credentials: %w", err)
		}
		return nil
	})
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*gormModels.Course, error) {
	var course gormModels.Course

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch course: %w", err)
	}
	return &course, nil
}

func (r *CourseRepository) List(ctx context.Context, activeOnly bool) ([]gormModels.Course, error) {
	var courses []gormModels.Course

	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("name ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (r *CourseRepository) Update(ctx context.Context, course *gormModels.Course) error {
	if err := r.db.WithContext(ctx).Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return nil
}

func (r *CourseRepository) SetActive(ctx context.Context, id string, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Course{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return fmt.Errorf("failed to update course status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
