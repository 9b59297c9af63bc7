package postapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chronicle/internal/config"
	"chronicle/internal/core/apperr"
	commentEntity "chronicle/internal/core/comment"
	postEntity "chronicle/internal/core/post"
	groupPort "chronicle/internal/ports/group"
	postPort "chronicle/internal/ports/post"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// PostInput is what an author submits when creating or editing a post.
type PostInput struct {
	Text  string `json:"text"`
	Group string `json:"group"`
	Image string `json:"image"`
}

type PostService struct {
	PostRepository  postPort.PostRepository
	GroupRepository groupPort.GroupRepository
	now             func() time.Time
}

type Option func(*PostService)

// WithClock sets the source of created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *PostService) {
		s.now = now
	}
}

func NewPostService(postRepo postPort.PostRepository, groupRepo groupPort.GroupRepository, opts ...Option) *PostService {
	s := &PostService{
		PostRepository:  postRepo,
		GroupRepository: groupRepo,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolve validates in and looks up its group.
func (s *PostService) resolve(ctx context.Context, in PostInput) (*uuid.UUID, error) {
	v := apperr.NewValidationError()
	if strings.TrimSpace(in.Text) == "" {
		v.Add("text", "is required")
	}
	if len(in.Image) > 255 {
		v.Add("image", "must be at most 255 characters")
	}

	var groupID *uuid.UUID
	if in.Group != "" {
		g, err := s.GroupRepository.FindBySlug(ctx, in.Group)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			v.Add("group", "unknown group "+in.Group)
		case err != nil:
			return nil, err
		default:
			id := g.ID
			groupID = &id
		}
	}
	return groupID, v.OrNil()
}

func (s *PostService) CreatePost(ctx context.Context, authorID string, in PostInput) (*postPort.PostDTO, error) {
	uid, err := uuid.FromString(authorID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid author id", apperr.ErrUnauthorized)
	}
	groupID, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	created, err := s.PostRepository.Create(ctx, &postEntity.Post{
		Text:      in.Text,
		Image:     in.Image,
		UserID:    uid,
		GroupID:   groupID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		config.Logger.Error("❌ Failed to create post", zap.String("userID", authorID), zap.Error(err))
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	config.Logger.Info("✅ Created post", zap.String("postID", created.ID.String()), zap.String("userID", authorID))

	full, err := s.PostRepository.FindByID(ctx, created.ID.String())
	if err != nil {
		return nil, err
	}
	return postPort.ToDTO(full), nil
}

func (s *PostService) find(ctx context.Context, id string) (*postEntity.Post, error) {
	if _, err := uuid.FromString(id); err != nil {
		return nil, fmt.Errorf("%w: post %s", apperr.ErrNotFound, id)
	}
	return s.PostRepository.FindByID(ctx, id)
}

// GetPost returns the post with its comments, oldest first, and how many posts
// its author has written.
func (s *PostService) GetPost(ctx context.Context, id string) (*postPort.PostDetailDTO, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.PostRepository.FindComments(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.PostRepository.CountByUserID(ctx, p.UserID.String())
	if err != nil {
		return nil, err
	}

	detail := &postPort.PostDetailDTO{
		Post:        postPort.ToDTO(p),
		Comments:    make([]*postPort.CommentDTO, 0, len(comments)),
		AuthorPosts: count,
	}
	for _, c := range comments {
		detail.Comments = append(detail.Comments, postPort.CommentToDTO(c))
	}
	return detail, nil
}

// owned loads the post and checks that editorID wrote it.
func (s *PostService) owned(ctx context.Context, editorID, id string) (*postEntity.Post, error) {
	if editorID == "" {
		return nil, apperr.ErrUnauthorized
	}
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID.String() != editorID {
		config.Logger.Warn("⚠️ Edit by non-author rejected", zap.String("postID", id), zap.String("userID", editorID))
		return nil, fmt.Errorf("%w: only the author may change this post", apperr.ErrForbidden)
	}
	return p, nil
}

// EditPost replaces text, group and image. created_at keeps its value.
func (s *PostService) EditPost(ctx context.Context, editorID, id string, in PostInput) (*postPort.PostDTO, error) {
	p, err := s.owned(ctx, editorID, id)
	if err != nil {
		return nil, err
	}
	groupID, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	p.Text = in.Text
	p.Image = in.Image
	p.GroupID = groupID
	p.UpdatedAt = s.now()
	if err := s.PostRepository.Update(ctx, p); err != nil {
		return nil, err
	}
	config.Logger.Info("✏️ Post edited", zap.String("postID", id))

	updated, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return postPort.ToDTO(updated), nil
}

func (s *PostService) DeletePost(ctx context.Context, editorID, id string) error {
	if _, err := s.owned(ctx, editorID, id); err != nil {
		return err
	}
	if err := s.PostRepository.Delete(ctx, id); err != nil {
		return err
	}
	config.Logger.Info("🗑 Post deleted", zap.String("postID", id))
	return nil
}

func (s *PostService) AddComment(ctx context.Context, authorID, postID, text string) (*postPort.CommentDTO, error) {
	uid, err := uuid.FromString(authorID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid author id", apperr.ErrUnauthorized)
	}
	p, err := s.find(ctx, postID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		v := apperr.NewValidationError()
		v.Add("text", "is required")
		return nil, v
	}

	c, err := s.PostRepository.AddComment(ctx, &commentEntity.Comment{
		PostID:    p.ID,
		UserID:    uid,
		Text:      text,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}
	return postPort.CommentToDTO(c), nil
}
