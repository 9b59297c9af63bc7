package database

import (
	"context"

	"chronicle/internal/core/comment"
	"chronicle/internal/core/follower"
	"chronicle/internal/core/group"
	"chronicle/internal/core/post"
	"chronicle/internal/core/user"
	statsPort "chronicle/internal/ports/stats"

	"gorm.io/gorm"
)

type StatsRepositoryDatabase struct {
	db *gorm.DB
}

func NewStatsRepositoryDatabase(db *gorm.DB) *StatsRepositoryDatabase {
	return &StatsRepositoryDatabase{db: db}
}

func (repo *StatsRepositoryDatabase) Counts(ctx context.Context) (statsPort.Counts, error) {
	var counts statsPort.Counts
	targets := []struct {
		model interface{}
		dst   *int64
	}{
		{&user.User{}, &counts.Users},
		{&group.Group{}, &counts.Groups},
		{&post.Post{}, &counts.Posts},
		{&comment.Comment{}, &counts.Comments},
		{&follower.Follower{}, &counts.Follows},
	}
	for _, t := range targets {
		if err := repo.db.WithContext(ctx).Model(t.model).Count(t.dst).Error; err != nil {
			return statsPort.Counts{}, err
		}
	}
	return counts, nil
}
