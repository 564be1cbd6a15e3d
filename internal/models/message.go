package models

import (
	"time"
)

// Message rows are only ever mutated to flip IsSeen when the receiver reads
// them; they are never deleted.
type Message struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Message     string    `json:"message" gorm:"type:text;not null"`
	SentAt      time.Time `json:"sentAt" gorm:"column:sent_at;autoCreateTime"`
	IsSeen      bool      `json:"isSeen" gorm:"column:isSeen;not null;default:false"`
	Sender      uint      `json:"senderId" gorm:"column:sender;not null"`
	Receiver    uint      `json:"receiverId" gorm:"column:receiver;not null"`
	ReadingTime int       `json:"readingTime" gorm:"column:readingTime;not null"`
}
