package postapp

import (
	"context"
	"strings"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"welbex/internal/core/attachment"
	attachmentapp "welbex/internal/core/attachment/service"
	"welbex/internal/core/auth"
	commentEntity "welbex/internal/core/comment"
	"welbex/internal/core/errs"
	postEntity "welbex/internal/core/post"
	commentPort "welbex/internal/ports/comment"
	postPort "welbex/internal/ports/post"
)

type PostService struct {
	PostRepository    postPort.PostRepository
	CommentRepository commentPort.CommentRepository
	Cache             postPort.PostCache
	Attachments       *attachmentapp.AttachmentService
	logger            *zap.Logger
}

func NewPostService(
	postRepo postPort.PostRepository,
	commentRepo commentPort.CommentRepository,
	cache postPort.PostCache,
	attachments *attachmentapp.AttachmentService,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		PostRepository:    postRepo,
		CommentRepository: commentRepo,
		Cache:             cache,
		Attachments:       attachments,
		logger:            logger,
	}
}

// CreatePost ایجاد یک پست جدید با یک فایل اختیاری
func (s *PostService) CreatePost(ctx context.Context, userID, title, content string, file *attachment.Upload) (*postPort.PostDTO, error) {
	uid, err := requesterID(userID)
	if err != nil {
		return nil, err
	}
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, errs.Validation("title and content are required")
	}

	p := &postEntity.Post{
		ID:      uuid.Must(uuid.NewV4()),
		Title:   title,
		Content: content,
		UserID:  uid,
	}

	var stored *attachment.Stored
	if file != nil {
		stored, err = s.Attachments.Ingest(ctx, file)
		if err != nil {
			return nil, err
		}
		p.Attach(stored.Kind, stored.Ref)
	}

	if _, err := s.PostRepository.Create(ctx, p); err != nil {
		if stored != nil {
			s.Attachments.Discard(ctx, stored.Ref)
		}
		return nil, err
	}
	s.logger.Info("Post created", zap.String("postID", p.ID.String()), zap.String("userID", userID))

	return s.loadThread(ctx, p.ID)
}

// ListPosts همه پست‌ها به همراه نویسنده و کامنت‌ها
func (s *PostService) ListPosts(ctx context.Context) ([]*postPort.PostDTO, error) {
	posts, err := s.PostRepository.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	comments, err := s.CommentRepository.FindByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return assemble(posts, comments), nil
}

// GetPost reads through the post cache.
func (s *PostService) GetPost(ctx context.Context, id string) (*postPort.PostDTO, error) {
	pid, err := postID(id)
	if err != nil {
		return nil, err
	}

	cached, err := s.Cache.Get(ctx, pid.String())
	if err != nil {
		s.logger.Warn("Post cache read failed", zap.String("postID", id), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	// the generation is read before loading so a concurrent write voids the Set
	gen, genErr := s.Cache.Generation(ctx, pid.String())
	if genErr != nil {
		s.logger.Warn("Post cache generation read failed", zap.String("postID", id), zap.Error(genErr))
	}

	dto, err := s.loadThread(ctx, pid)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return dto, nil
	}
	if err := s.Cache.Set(ctx, dto, gen); err != nil {
		s.logger.Warn("Post cache write failed", zap.String("postID", id), zap.Error(err))
	}
	return dto, nil
}

// UpdatePost applies a partial update. Empty fields keep their value and a
// file only replaces the slot it classifies into.
func (s *PostService) UpdatePost(ctx context.Context, id, userID, title, content string, file *attachment.Upload) (*postPort.PostDTO, error) {
	uid, err := requesterID(userID)
	if err != nil {
		return nil, err
	}
	pid, err := postID(id)
	if err != nil {
		return nil, err
	}

	p, err := s.PostRepository.FindByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(uid, p.UserID); err != nil {
		return nil, err
	}

	if t := strings.TrimSpace(title); t != "" {
		p.Title = t
	}
	if c := strings.TrimSpace(content); c != "" {
		p.Content = c
	}

	var stored *attachment.Stored
	var replaced *string
	if file != nil {
		stored, err = s.Attachments.Ingest(ctx, file)
		if err != nil {
			return nil, err
		}
		replaced = p.Attach(stored.Kind, stored.Ref)
	}

	if _, err := s.PostRepository.Update(ctx, p); err != nil {
		if stored != nil {
			s.Attachments.Discard(ctx, stored.Ref)
		}
		return nil, err
	}
	if replaced != nil && *replaced != stored.Ref {
		s.Attachments.Discard(ctx, *replaced)
	}
	s.invalidate(ctx, pid)

	return s.loadThread(ctx, pid)
}

// DeletePost حذف پست توسط مالک آن به همراه کامنت‌ها و فایل‌ها
func (s *PostService) DeletePost(ctx context.Context, id, userID string) error {
	uid, err := requesterID(userID)
	if err != nil {
		return err
	}
	pid, err := postID(id)
	if err != nil {
		return err
	}

	p, err := s.PostRepository.FindByID(ctx, pid)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(uid, p.UserID); err != nil {
		return err
	}

	if err := s.PostRepository.Delete(ctx, pid); err != nil {
		return err
	}
	for _, ref := range p.Attachments() {
		s.Attachments.Discard(ctx, ref)
	}
	s.invalidate(ctx, pid)

	s.logger.Info("Post deleted", zap.String("postID", id), zap.String("userID", userID))
	return nil
}

func (s *PostService) loadThread(ctx context.Context, pid uuid.UUID) (*postPort.PostDTO, error) {
	p, err := s.PostRepository.FindByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	comments, err := s.CommentRepository.FindByPostIDs(ctx, []uuid.UUID{pid})
	if err != nil {
		return nil, err
	}
	return assemble([]*postEntity.Post{p}, comments)[0], nil
}

func (s *PostService) invalidate(ctx context.Context, pid uuid.UUID) {
	if err := s.Cache.Invalidate(ctx, pid.String()); err != nil {
		s.logger.Warn("Post cache invalidation failed", zap.String("postID", pid.String()), zap.Error(err))
	}
}

// assemble nests comments under their posts, keeping both orders.
func assemble(posts []*postEntity.Post, comments []*commentEntity.Comment) []*postPort.PostDTO {
	byPost := make(map[uuid.UUID][]*commentPort.CommentDTO, len(posts))
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], commentPort.ToCommentDTO(c))
	}
	dtos := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		dto := postPort.ToPostDTO(p)
		if cs, ok := byPost[p.ID]; ok {
			dto.Comments = cs
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

func requesterID(userID string) (uuid.UUID, error) {
	uid, err := uuid.FromString(userID)
	if err != nil || uid == uuid.Nil {
		return uuid.Nil, errs.Unauthenticated("invalid identity")
	}
	return uid, nil
}

func postID(id string) (uuid.UUID, error) {
	pid, err := uuid.FromString(id)
	if err != nil {
		return uuid.Nil, errs.NotFound("post not found")
	}
	return pid, nil
}
