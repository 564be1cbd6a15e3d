package models

import (
	"time"
)

// Post keeps the column names the original schema created, including the
// camelCase "readingTime" column. Slug carries no uniqueness constraint;
// collisions resolve to the oldest row on lookup.
type Post struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Header      string    `json:"header" gorm:"size:255;not null"`
	Slug        string    `json:"slug" gorm:"size:255;not null"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	ReadingTime int       `json:"readingTime" gorm:"column:readingTime;not null"`
	AuthorID    uint      `json:"authorId" gorm:"column:author_id;not null"`
	CreatedAt   time.Time `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime"`
	IsHidden    bool      `json:"isHidden" gorm:"column:is_hidden;not null;default:false"`
	IsPrivate   bool      `json:"isPrivate" gorm:"column:is_private;not null;default:false"`
}

// PostCategory links posts to categories, cascade-deleted from either side.
type PostCategory struct {
	PostID     uint `json:"postId" gorm:"column:post_id;primaryKey"`
	CategoryID uint `json:"categoryId" gorm:"column:category_id;primaryKey"`
}

func (PostCategory) TableName() string {
	return "post_categories"
}
