package commentapp

import (
	"context"
	"errors"
	"strings"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"welbex/internal/core/auth"
	commentEntity "welbex/internal/core/comment"
	"welbex/internal/core/errs"
	commentPort "welbex/internal/ports/comment"
	postPort "welbex/internal/ports/post"
)

type CommentService struct {
	CommentRepository commentPort.CommentRepository
	PostRepository    postPort.PostRepository
	Cache             postPort.PostCache
	logger            *zap.Logger
}

func NewCommentService(
	commentRepo commentPort.CommentRepository,
	postRepo postPort.PostRepository,
	cache postPort.PostCache,
	logger *zap.Logger,
) *CommentService {
	return &CommentService{
		CommentRepository: commentRepo,
		PostRepository:    postRepo,
		Cache:             cache,
		logger:            logger,
	}
}

// CreateComment ثبت کامنت جدید زیر یک پست
func (s *CommentService) CreateComment(ctx context.Context, postID, userID, text string) (*commentPort.CommentDTO, error) {
	uid, err := uuid.FromString(userID)
	if err != nil || uid == uuid.Nil {
		return nil, errs.Unauthenticated("invalid identity")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.Validation("text is required")
	}

	pid, err := uuid.FromString(postID)
	if err != nil {
		return nil, errs.Validation("post does not exist")
	}
	if _, err := s.PostRepository.FindByID(ctx, pid); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.Validation("post does not exist")
		}
		return nil, err
	}

	c := &commentEntity.Comment{
		ID:     uuid.Must(uuid.NewV4()),
		Text:   text,
		UserID: uid,
		PostID: pid,
	}
	if _, err := s.CommentRepository.Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx, pid)

	created, err := s.CommentRepository.FindByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return commentPort.ToCommentDTO(created), nil
}

// ListComments returns the comments of a post, oldest first. An unknown post has none.
func (s *CommentService) ListComments(ctx context.Context, postID string) ([]*commentPort.CommentDTO, error) {
	pid, err := uuid.FromString(postID)
	if err != nil {
		return nil, errs.NotFound("post not found")
	}
	comments, err := s.CommentRepository.FindByPostIDs(ctx, []uuid.UUID{pid})
	if err != nil {
		return nil, err
	}

	dtos := make([]*commentPort.CommentDTO, 0, len(comments))
	for _, c := range comments {
		dtos = append(dtos, commentPort.ToCommentDTO(c))
	}
	return dtos, nil
}

// DeleteComment removes a comment of the requester. Someone else's comment is
// reported exactly like a missing one.
func (s *CommentService) DeleteComment(ctx context.Context, id, userID string) error {
	uid, err := uuid.FromString(userID)
	if err != nil || uid == uuid.Nil {
		return errs.Unauthenticated("invalid identity")
	}
	cid, err := uuid.FromString(id)
	if err != nil {
		return errs.NotFound("comment not found")
	}

	c, err := s.CommentRepository.FindByID(ctx, cid)
	if err != nil {
		return err
	}
	if err := auth.ConcealUnowned(uid, c.UserID, "comment"); err != nil {
		return err
	}
	if err := s.CommentRepository.Delete(ctx, cid); err != nil {
		return err
	}
	s.invalidate(ctx, c.PostID)
	return nil
}

func (s *CommentService) invalidate(ctx context.Context, pid uuid.UUID) {
	if err := s.Cache.Invalidate(ctx, pid.String()); err != nil {
		s.logger.Warn("Post cache invalidation failed", zap.String("postID", pid.String()), zap.Error(err))
	}
}
