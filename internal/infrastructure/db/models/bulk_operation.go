package models

import (
	"time"

	"gorm.io/datatypes"
)

type BulkOperation struct {
	ID                string         `gorm:"type:uuid;primaryKey"`
	Type              string         `gorm:"type:text;not null"`
	EntityType        string         `gorm:"type:text;not null"`
	EntityIDs         datatypes.JSON `gorm:"not null"`
	Status            string         `gorm:"type:text;not null"`
	ProgressTotal     int            `gorm:"not null;default:0"`
	ProgressProcessed int            `gorm:"not null;default:0"`
	FailedCount       int            `gorm:"not null;default:0"`
	ItemErrors        datatypes.JSON
	ErrorMessage      *string `gorm:"type:text"`
	RequestedBy       string  `gorm:"size:320;not null"`
	StartedAt         *time.Time
	FinishedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (BulkOperation) TableName() string {
	return "bulk_operations"
}
