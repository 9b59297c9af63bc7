package post

import (
	"context"
	"time"

	"chronicle/internal/core/comment"
	"chronicle/internal/core/post"
	groupPort "chronicle/internal/ports/group"
	userPort "chronicle/internal/ports/user"
)

// PostRepository stores posts and the comments attached to them.
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id string) (*post.Post, error)
	Update(ctx context.Context, post *post.Post) error
	Delete(ctx context.Context, id string) error
	CountByUserID(ctx context.Context, userID string) (int64, error)

	AddComment(ctx context.Context, comment *comment.Comment) (*comment.Comment, error)
	FindComments(ctx context.Context, postID string) ([]*comment.Comment, error)
}

type PostDTO struct {
	ID        string              `json:"id"`
	Text      string              `json:"text"`
	Image     string              `json:"image,omitempty"`
	UserID    string              `json:"user_id"`
	User      *userPort.UserDTO   `json:"author,omitempty"`
	Group     *groupPort.GroupDTO `json:"group,omitempty"`
	CreatedAt string              `json:"created_at"`
}

type CommentDTO struct {
	ID        string            `json:"id"`
	PostID    string            `json:"post_id"`
	Text      string            `json:"text"`
	User      *userPort.UserDTO `json:"author,omitempty"`
	CreatedAt string            `json:"created_at"`
}

// PostDetailDTO is a single post with its discussion.
type PostDetailDTO struct {
	Post        *PostDTO      `json:"post"`
	Comments    []*CommentDTO `json:"comments"`
	AuthorPosts int64         `json:"author_posts_count"`
}

func ToDTO(p *post.Post) *PostDTO {
	dto := &PostDTO{
		ID:        p.ID.String(),
		Text:      p.Text,
		Image:     p.Image,
		UserID:    p.UserID.String(),
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if p.User.ID == p.UserID {
		dto.User = userPort.ToDTO(&p.User)
	}
	if p.Group != nil {
		dto.Group = groupPort.ToDTO(p.Group)
	}
	return dto
}

func ToDTOs(posts []*post.Post) []*PostDTO {
	dtos := make([]*PostDTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, ToDTO(p))
	}
	return dtos
}

func CommentToDTO(c *comment.Comment) *CommentDTO {
	dto := &CommentDTO{
		ID:        c.ID.String(),
		PostID:    c.PostID.String(),
		Text:      c.Text,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if c.User.ID == c.UserID {
		dto.User = userPort.ToDTO(&c.User)
	}
	return dto
}
