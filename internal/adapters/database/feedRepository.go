package database

import (
	"context"

	"chronicle/internal/core/follower"
	"chronicle/internal/core/post"
	feedPort "chronicle/internal/ports/feed"

	"gorm.io/gorm"
)

// FeedRepositoryDatabase runs feed queries straight against the posts table
// (join on read).
type FeedRepositoryDatabase struct {
	db *gorm.DB
}

func NewFeedRepositoryDatabase(db *gorm.DB) *FeedRepositoryDatabase {
	return &FeedRepositoryDatabase{db: db}
}

func (repo *FeedRepositoryDatabase) scope(ctx context.Context, filter feedPort.Filter) *gorm.DB {
	q := repo.db.WithContext(ctx).Model(&post.Post{})
	if filter.GroupID != "" {
		q = q.Where("group_id = ?", filter.GroupID)
	}
	if filter.AuthorID != "" {
		q = q.Where("user_id = ?", filter.AuthorID)
	}
	if filter.FollowerID != "" {
		followed := repo.db.WithContext(ctx).Model(&follower.Follower{}).
			Select("author_id").
			Where("follower_id = ?", filter.FollowerID)
		q = q.Where("user_id IN (?)", followed)
	}
	return q
}

func (repo *FeedRepositoryDatabase) CountPosts(ctx context.Context, filter feedPort.Filter) (int64, error) {
	var count int64
	if err := repo.scope(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *FeedRepositoryDatabase) ListPosts(ctx context.Context, filter feedPort.Filter, offset, limit int) ([]*post.Post, error) {
	var posts []*post.Post
	if err := repo.scope(ctx, filter).
		Preload("User").
		Preload("Group").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
