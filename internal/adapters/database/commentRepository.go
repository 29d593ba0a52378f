package database

import (
	"context"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"welbex/internal/core/comment"
)

// CommentRepositoryDatabase پیاده‌سازی CommentRepository برای دیتابیس
type CommentRepositoryDatabase struct {
	db *gorm.DB
}

// NewCommentRepositoryDatabase سازنده CommentRepositoryDatabase
func NewCommentRepositoryDatabase(db *gorm.DB) *CommentRepositoryDatabase {
	return &CommentRepositoryDatabase{db: db}
}

func (repo *CommentRepositoryDatabase) Create(ctx context.Context, c *comment.Comment) (*comment.Comment, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		return nil, translate(err, "comment")
	}
	return c, nil
}

func (repo *CommentRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	var c comment.Comment
	if err := repo.db.WithContext(ctx).
		Joins("User").
		Where("comments.id = ?", id).
		First(&c).Error; err != nil {
		return nil, translate(err, "comment")
	}
	return &c, nil
}

func (repo *CommentRepositoryDatabase) FindByPostIDs(ctx context.Context, postIDs []uuid.UUID) ([]*comment.Comment, error) {
	comments := []*comment.Comment{}
	if len(postIDs) == 0 {
		return comments, nil
	}
	if err := repo.db.WithContext(ctx).
		Joins("User").
		Where("comments.post_id IN ?", postIDs).
		Order("comments.created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, translate(err, "comment")
	}
	return comments, nil
}

func (repo *CommentRepositoryDatabase) Delete(ctx context.Context, id uuid.UUID) error {
	res := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&comment.Comment{})
	if res.Error != nil {
		return translate(res.Error, "comment")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "comment")
	}
	return nil
}
