package bootstrap

import (
	"github.com/mohammadpnp/admin-bulkops/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.BulkOperation{},
		&models.AuditRecord{},
	)
}
