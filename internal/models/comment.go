package models

// Comment exists in the storage schema but has no routes over it yet.
type Comment struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Text     *string `json:"text" gorm:"type:text"`
	AuthorID *uint   `json:"authorId" gorm:"column:author_id"`
	PostID   *uint   `json:"postId" gorm:"column:post_id"`
}
