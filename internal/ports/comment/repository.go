package comment

import (
	"context"
	"time"

	"github.com/gofrs/uuid"

	"welbex/internal/core/comment"
	userPort "welbex/internal/ports/user"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *comment.Comment) (*comment.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error)
	// FindByPostIDs returns the comments of the given posts with their authors joined, oldest first.
	FindByPostIDs(ctx context.Context, postIDs []uuid.UUID) ([]*comment.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentDTO struct {
	ID        string              `json:"id"`
	Text      string              `json:"text"`
	UserID    string              `json:"userId"`
	PostID    string              `json:"postId"`
	User      *userPort.AuthorDTO `json:"user,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func ToCommentDTO(c *comment.Comment) *CommentDTO {
	return &CommentDTO{
		ID:        c.ID.String(),
		Text:      c.Text,
		UserID:    c.UserID.String(),
		PostID:    c.PostID.String(),
		User:      userPort.ToAuthorDTO(&c.User),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
