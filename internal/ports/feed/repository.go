package feed

import (
	"context"

	"chronicle/internal/core/post"
	"chronicle/internal/paginator"
	groupPort "chronicle/internal/ports/group"
	postPort "chronicle/internal/ports/post"
	userPort "chronicle/internal/ports/user"
)

// Filter narrows the post set; zero value selects every post.
type Filter struct {
	GroupID string
	// AuthorID restricts to posts written by this user.
	AuthorID string
	// FollowerID restricts to posts whose author is followed by this user.
	FollowerID string
}

// FeedRepository answers feed queries, always ordered newest first.
type FeedRepository interface {
	CountPosts(ctx context.Context, filter Filter) (int64, error)
	ListPosts(ctx context.Context, filter Filter, offset, limit int) ([]*post.Post, error)
}

// PageDTO is one page of a feed.
type PageDTO struct {
	Posts []*postPort.PostDTO `json:"posts"`
	Page  paginator.Page      `json:"page"`
}

type GroupPageDTO struct {
	PageDTO
	Group *groupPort.GroupDTO `json:"group"`
}

type ProfilePageDTO struct {
	PageDTO
	Author     *userPort.UserDTO `json:"author"`
	PostsCount int64             `json:"posts_count"`
	Following  bool              `json:"following"`
}
