package models

import "time"

type User struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	Name      string `gorm:"size:255;not null"`
	Email     string `gorm:"size:320;not null;uniqueIndex"`
	Role      string `gorm:"size:32;not null;default:member"`
	Status    string `gorm:"size:32;not null;default:active"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
