package models

import "time"

type Subscription struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    string `gorm:"type:uuid;index;not null"`
	Plan      string `gorm:"size:64;not null"`
	Status    string `gorm:"size:32;not null;default:active"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Subscription) TableName() string {
	return "subscriptions"
}
