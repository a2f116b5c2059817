package gorm

import (
	"infinite-experiment/coursehub/internal/constants"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course is a tenant. Its content lives in a separate database reached
// through CourseCredentials.
type Course struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	Lecturer    *string   `gorm:"column:lecturer" json:"lecturer,omitempty"`
	CourseRep   *string   `gorm:"column:course_rep" json:"courseRep,omitempty"`
	IsActive    bool      `gorm:"column:is_active;default:true;not null" json:"isActive"`
	CreatedBy   string    `gorm:"column:created_by;type:uuid;not null" json:"createdBy"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	// Relationships
	Memberships []CourseMembership `gorm:"foreignKey:CourseID" json:"-"`
}

// TableName specifies the table name for GORM
func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CourseCredentials is read by the sqlx credential store. GORM writes it only
// when a course is created together with its credentials.
type CourseCredentials struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid"`
	CourseID    string    `gorm:"column:course_id;type:uuid;uniqueIndex;not null"`
	EndpointURL string    `gorm:"column:endpoint_url;not null"`
	PublicKey   string    `gorm:"column:public_key;not null"`
	ServiceKey  string    `gorm:"column:service_key;not null" json:"-"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (CourseCredentials) TableName() string {
	return "course_credentials"
}

func (c *CourseCredentials) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type CourseMembership struct {
	ID       string                     `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	UserID   string                     `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_membership_user_course" json:"userId"`
	CourseID string                     `gorm:"column:course_id;type:uuid;index;not null;uniqueIndex:idx_membership_user_course" json:"courseId"`
	Role     constants.MembershipRole   `gorm:"column:role;default:student;not null" json:"role"`
	Status   constants.MembershipStatus `gorm:"column:status;default:active;not null" json:"status"`
	JoinedAt time.Time                  `gorm:"column:joined_at;autoCreateTime" json:"joinedAt"`

	// Relationships
	Course Course `gorm:"foreignKey:CourseID" json:"-"`
}

// TableName specifies the table name for GORM
func (CourseMembership) TableName() string {
	return "course_memberships"
}

func (m *CourseMembership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Role == "" {
		m.Role = constants.MembershipStudent
	}
	if m.Status == "" {
		m.Status = constants.MembershipActive
	}
	return nil
}
