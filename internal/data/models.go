package data

import "time"

// GORM models used for persistence.

// MessageModel maintains the complete history of messages observed in the
// monitored groups, including text content, image metadata, and OCR output.
type MessageModel struct {
	ID                int64     `gorm:"primaryKey"`
	TelegramMessageID int64     `gorm:"uniqueIndex;not null"`
	ChatName          string    `gorm:"size:255;index;not null"`
	Content           *string   `gorm:"type:text"`
	HasImage          bool      `gorm:"not null;default:false"`
	OCRText           *string   `gorm:"column:ocr_text;type:text"`
	Timestamp         time.Time `gorm:"autoCreateTime;index"`

	Alerts []AlertModel `gorm:"foreignKey:MessageID"`
}

func (MessageModel) TableName() string { return "messages" }

// AlertModel stores keyword alerts, each linked to the message that
// triggered it.
type AlertModel struct {
	ID           int64     `gorm:"primaryKey"`
	MessageID    int64     `gorm:"index;not null"`
	KeywordFound string    `gorm:"size:255;index;not null"`
	Timestamp    time.Time `gorm:"autoCreateTime"`

	Message *MessageModel `gorm:"foreignKey:MessageID"`
}

func (AlertModel) TableName() string { return "alerts" }
