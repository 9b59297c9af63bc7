package database

import (
	"context"

	"chronicle/internal/core/follower"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowerRepositoryDatabase implements FollowerRepository on gorm.
type FollowerRepositoryDatabase struct {
	db *gorm.DB
}

func NewFollowerRepositoryDatabase(db *gorm.DB) *FollowerRepositoryDatabase {
	return &FollowerRepositoryDatabase{db: db}
}

// FollowUser inserts the edge and lets the unique index swallow duplicates,
// so concurrent double follows still leave a single row.
func (repo *FollowerRepositoryDatabase) FollowUser(ctx context.Context, f *follower.Follower) error {
	err := repo.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(f).Error
	if IsDuplicateKey(err) {
		return nil
	}
	return err
}

func (repo *FollowerRepositoryDatabase) UnfollowUser(ctx context.Context, followerID, authorID string) error {
	return repo.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&follower.Follower{}).Error
}

func (repo *FollowerRepositoryDatabase) GetFollowersByUserID(ctx context.Context, authorID string) ([]*follower.Follower, error) {
	var followers []*follower.Follower
	if err := repo.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at ASC").Find(&followers).Error; err != nil {
		return nil, err
	}
	return followers, nil
}

func (repo *FollowerRepositoryDatabase) GetFollowingByUserID(ctx context.Context, followerID string) ([]*follower.Follower, error) {
	var following []*follower.Follower
	if err := repo.db.WithContext(ctx).Where("follower_id = ?", followerID).Order("created_at ASC").Find(&following).Error; err != nil {
		return nil, err
	}
	return following, nil
}

func (repo *FollowerRepositoryDatabase) IsFollowing(ctx context.Context, followerID, authorID string) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&follower.Follower{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
