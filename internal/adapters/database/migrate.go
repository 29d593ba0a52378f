package database

import (
	"gorm.io/gorm"

	"welbex/internal/core/comment"
	"welbex/internal/core/post"
	"welbex/internal/core/user"
)

// Migrate اعمال مایگریشن برای مدل‌ها
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&post.Post{},
		&comment.Comment{},
	)
}
