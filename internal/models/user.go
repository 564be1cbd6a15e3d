package models

import (
	"time"
)

type User struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Username string  `json:"username" gorm:"size:255;uniqueIndex;not null"`
	Password string  `json:"-" gorm:"size:255;not null"`
	Name     string  `json:"name" gorm:"size:255;not null"`
	Email    string  `json:"email" gorm:"size:255;uniqueIndex;not null"`
	About    *string `json:"about,omitempty" gorm:"type:text"`
	// Image is the public avatar URL; ImageKey is the object-store key it was
	// uploaded under, kept so deletion never has to parse the URL.
	Image    *string   `json:"image" gorm:"type:text"`
	ImageKey *string   `json:"-" gorm:"type:text"`
	JoinedAt time.Time `json:"joinedAt" gorm:"column:joined_at;autoCreateTime"`
}
