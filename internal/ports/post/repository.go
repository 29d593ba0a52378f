package post

import (
	"context"
	"time"

	"github.com/gofrs/uuid"

	"welbex/internal/core/post"
	commentPort "welbex/internal/ports/comment"
	userPort "welbex/internal/ports/user"
)

// PostRepository پورت برای ذخیره‌سازی و بازیابی پست‌ها
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	// FindByID returns the post with its author joined.
	FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error)
	// FindAll returns every post with its author joined, in insertion order.
	FindAll(ctx context.Context) ([]*post.Post, error)
	Update(ctx context.Context, post *post.Post) (*post.Post, error)
	// Delete removes the post and its comments in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
	// ListAttachmentRefs returns every image and video reference held by a post.
	ListAttachmentRefs(ctx context.Context) ([]string, error)
}

// PostCache keeps rendered post threads. A miss is (nil, nil).
//
// Every Invalidate advances the post's generation. Set stores the thread only
// while the generation still equals gen, the value read before the thread was
// loaded, so a load that raced a write never lands in the cache.
type PostCache interface {
	Get(ctx context.Context, id string) (*PostDTO, error)
	Generation(ctx context.Context, id string) (int64, error)
	Set(ctx context.Context, dto *PostDTO, gen int64) error
	Invalidate(ctx context.Context, id string) error
}

// DTOs for the use cases.
type PostDTO struct {
	ID        string                    `json:"id"`
	Title     string                    `json:"title"`
	Content   string                    `json:"content"`
	Image     *string                   `json:"image"`
	Video     *string                   `json:"video"`
	UserID    string                    `json:"userId"`
	User      *userPort.AuthorDTO       `json:"user,omitempty"`
	Comments  []*commentPort.CommentDTO `json:"comments"`
	CreatedAt time.Time                 `json:"createdAt"`
	UpdatedAt time.Time                 `json:"updatedAt"`
}

func ToPostDTO(p *post.Post) *PostDTO {
	return &PostDTO{
		ID:        p.ID.String(),
		Title:     p.Title,
		Content:   p.Content,
		Image:     p.Image,
		Video:     p.Video,
		UserID:    p.UserID.String(),
		User:      userPort.ToAuthorDTO(&p.User),
		Comments:  []*commentPort.CommentDTO{},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
