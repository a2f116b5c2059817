package gorm

import (
	"infinite-experiment/coursehub/internal/constants"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is created on the first successful identity verification. The ID is the
// identity provider's subject.
type User struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Username  string    `gorm:"column:username;size:50;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"column:email;not null" json:"email"`
	IsCreator bool      `gorm:"column:is_creator;default:false;not null" json:"isCreator"`
	IsBanned  bool      `gorm:"column:is_banned;default:false;not null" json:"isBanned"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	// Relationships
	Roles       []Role             `gorm:"foreignKey:UserID" json:"-"`
	Memberships []CourseMembership `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

type Role struct {
	ID         string             `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	UserID     string             `gorm:"column:user_id;type:uuid;index;not null" json:"userId"`
	RoleType   constants.RoleKind `gorm:"column:role_type;not null" json:"roleType"`
	Scope      *string            `gorm:"column:scope;type:uuid" json:"scope,omitempty"`
	AssignedBy *string            `gorm:"column:assigned_by;type:uuid" json:"assignedBy,omitempty"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for GORM
func (Role) TableName() string {
	return "roles"
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
