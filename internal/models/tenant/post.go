package tenant

import (
	"infinite-experiment/coursehub/internal/constants"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Post lives in a course database. AuthorID references registry users.id;
// nothing enforces that across databases.
type Post struct {
	ID        string                      `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Title     string                      `gorm:"column:title;not null" json:"title"`
	Content   string                      `gorm:"column:content;not null" json:"content"`
	Type      constants.PostKind          `gorm:"column:type;index;not null" json:"type"`
	AuthorID  string                      `gorm:"column:author_id;type:uuid;not null" json:"authorId"`
	Deadline  *time.Time                  `gorm:"column:deadline" json:"deadline,omitempty"`
	MediaURLs datatypes.JSONSlice[string] `gorm:"column:media_urls" json:"mediaUrls"`
	IsPinned  bool                        `gorm:"column:is_pinned;default:false;not null" json:"isPinned"`
	State     constants.LifecycleState    `gorm:"column:state;index;default:active;not null" json:"state"`
	CreatedAt time.Time                   `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.State == "" {
		p.State = constants.StateActive
	}
	return nil
}

type Comment struct {
	ID        string                   `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	PostID    string                   `gorm:"column:post_id;type:uuid;index;not null" json:"postId"`
	AuthorID  string                   `gorm:"column:author_id;type:uuid;not null" json:"authorId"`
	Content   string                   `gorm:"column:content;not null" json:"content"`
	ParentID  *string                  `gorm:"column:parent_id;type:uuid" json:"parentId,omitempty"`
	State     constants.LifecycleState `gorm:"column:state;default:active;not null" json:"state"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time                `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.State == "" {
		c.State = constants.StateActive
	}
	return nil
}
