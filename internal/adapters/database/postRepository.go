package database

import (
	"context"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"welbex/internal/core/comment"
	"welbex/internal/core/post"
)

// PostRepositoryDatabase پیاده‌سازی PostRepository برای دیتابیس
type PostRepositoryDatabase struct {
	db *gorm.DB
}

// NewPostRepositoryDatabase سازنده PostRepositoryDatabase
func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return nil, translate(err, "post")
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	var p post.Post
	if err := repo.db.WithContext(ctx).
		Joins("User").
		Where("posts.id = ?", id).
		First(&p).Error; err != nil {
		return nil, translate(err, "post")
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) FindAll(ctx context.Context) ([]*post.Post, error) {
	var posts []*post.Post
	if err := repo.db.WithContext(ctx).
		Joins("User").
		Order("posts.created_at ASC").
		Find(&posts).Error; err != nil {
		return nil, translate(err, "post")
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) Update(ctx context.Context, p *post.Post) (*post.Post, error) {
	err := repo.db.WithContext(ctx).
		Model(p).
		Select("title", "content", "image", "video", "updated_at").
		Updates(p).Error
	if err != nil {
		return nil, translate(err, "post")
	}
	return repo.FindByID(ctx, p.ID)
}

// Delete حذف پست به همراه کامنت‌های آن در یک تراکنش
func (repo *PostRepositoryDatabase) Delete(ctx context.Context, id uuid.UUID) error {
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&comment.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&post.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "post")
}

func (repo *PostRepositoryDatabase) ListAttachmentRefs(ctx context.Context) ([]string, error) {
	var images, videos []string
	if err := repo.db.WithContext(ctx).Model(&post.Post{}).Where("image IS NOT NULL").Pluck("image", &images).Error; err != nil {
		return nil, translate(err, "post")
	}
	if err := repo.db.WithContext(ctx).Model(&post.Post{}).Where("video IS NOT NULL").Pluck("video", &videos).Error; err != nil {
		return nil, translate(err, "post")
	}
	return append(images, videos...), nil
}
