package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlatformSetting struct {
	ID        string         `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Key       string         `gorm:"column:key;uniqueIndex;not null" json:"key"`
	Value     datatypes.JSON `gorm:"column:value;not null" json:"value"`
	UpdatedBy string         `gorm:"column:updated_by;type:uuid;not null" json:"updatedBy"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (PlatformSetting) TableName() string {
	return "platform_settings"
}

func (s *PlatformSetting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type Notification struct {
	ID        string         `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	UserID    string         `gorm:"column:user_id;type:uuid;index;not null" json:"userId"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	Message   string         `gorm:"column:message;not null" json:"message"`
	Type      string         `gorm:"column:type;not null" json:"type"`
	Data      datatypes.JSON `gorm:"column:data" json:"data,omitempty"`
	IsRead    bool           `gorm:"column:is_read;default:false;not null" json:"isRead"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

type GlobalPinnedPost struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	Content   string    `gorm:"column:content;not null" json:"content"`
	Author    string    `gorm:"column:author;type:uuid;not null" json:"author"`
	IsPinned  bool      `gorm:"column:is_pinned;default:true;not null" json:"isPinned"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (GlobalPinnedPost) TableName() string {
	return "global_pinned_posts"
}

func (p *GlobalPinnedPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type UserBadge struct {
	ID        string         `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	UserID    string         `gorm:"column:user_id;type:uuid;index;not null" json:"userId"`
	BadgeType string         `gorm:"column:badge_type;not null" json:"badgeType"`
	BadgeData datatypes.JSON `gorm:"column:badge_data" json:"badgeData,omitempty"`
	CourseID  *string        `gorm:"column:course_id;type:uuid" json:"courseId,omitempty"`
	EarnedAt  time.Time      `gorm:"column:earned_at;autoCreateTime" json:"earnedAt"`
}

// TableName specifies the table name for GORM
func (UserBadge) TableName() string {
	return "user_badges"
}

func (b *UserBadge) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// RegistryModels lists every registry table for AutoMigrate.
func RegistryModels() []interface{} {
	return []interface{}{
		&User{},
		&Role{},
		&Course{},
		&CourseCredentials{},
		&CourseMembership{},
		&PlatformSetting{},
		&Notification{},
		&GlobalPinnedPost{},
		&UserBadge{},
	}
}
