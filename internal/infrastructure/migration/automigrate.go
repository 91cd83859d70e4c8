package migration

import (
	"github.com/fylo-cloud/fylo/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the models GormAutoMigrateStrategy creates.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.OrderModel{},
	}
}
