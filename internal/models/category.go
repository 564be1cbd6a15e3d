package models

type Category struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Category string `json:"category" gorm:"size:255;not null"`
	Slug     string `json:"slug" gorm:"size:255;not null"`
	UserID   uint   `json:"userId" gorm:"column:user_id;not null"`
	IsHidden bool   `json:"isHidden" gorm:"column:is_hidden;not null;default:false"`
	// A private category gets a random opaque slug instead of one derived
	// from its label, and the same is pushed down to its linked posts.
	IsPrivate bool `json:"isPrivate" gorm:"column:is_private;not null;default:false"`
}

func (Category) TableName() string {
	return "categories"
}
