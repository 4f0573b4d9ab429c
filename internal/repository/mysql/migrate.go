package mysql

import (
	"gorm.io/gorm"

	"github.com/Guyuepp/recipe-engagement/internal/repository/mysql/model"
)

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.Item{}, &model.Like{}, &model.Comment{})
}
