package follower

import (
	"context"

	"chronicle/internal/core/follower"
)

// FollowerRepository stores follow edges. FollowUser must rely on the
// unique (follower_id, author_id) index: an existing edge is left untouched.
type FollowerRepository interface {
	FollowUser(ctx context.Context, follower *follower.Follower) error
	UnfollowUser(ctx context.Context, followerID, authorID string) error
	GetFollowersByUserID(ctx context.Context, authorID string) ([]*follower.Follower, error)
	GetFollowingByUserID(ctx context.Context, followerID string) ([]*follower.Follower, error)
	IsFollowing(ctx context.Context, followerID, authorID string) (bool, error)
}

type FollowerDTO struct {
	ID         string `json:"id"`
	AuthorID   string `json:"authorId"`
	FollowerID string `json:"followerId"`
}
