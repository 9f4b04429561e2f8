package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditRecord struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	OperationID   string `gorm:"type:uuid;index;not null"`
	Action        string `gorm:"type:text;not null"`
	Actor         string `gorm:"size:320;not null"`
	OperationType string `gorm:"type:text;not null"`
	EntityType    string `gorm:"type:text;not null"`
	Detail        datatypes.JSON
	CreatedAt     time.Time
}

func (AuditRecord) TableName() string {
	return "audit_records"
}
