package followerapp

import (
	"context"
	"fmt"

	"chronicle/internal/config"
	"chronicle/internal/core/apperr"
	followerEntity "chronicle/internal/core/follower"
	followerPort "chronicle/internal/ports/follower"
	userPort "chronicle/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type FollowerService struct {
	FollowerRepository followerPort.FollowerRepository
	UserRepository     userPort.UserRepository
}

func NewFollowerService(repo followerPort.FollowerRepository, users userPort.UserRepository) *FollowerService {
	return &FollowerService{
		FollowerRepository: repo,
		UserRepository:     users,
	}
}

// Follow subscribes followerID to authorUsername's posts. Following someone
// already followed is a no-op.
func (s *FollowerService) Follow(ctx context.Context, followerID, authorUsername string) error {
	fid, err := uuid.FromString(followerID)
	if err != nil {
		return fmt.Errorf("%w: invalid follower id", apperr.ErrUnauthorized)
	}
	author, err := s.UserRepository.FindByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	if author.ID == fid {
		config.Logger.Warn("⚠️ Cannot follow yourself", zap.String("userID", followerID))
		return fmt.Errorf("%w: cannot follow yourself", apperr.ErrInvalidOperation)
	}

	if err := s.FollowerRepository.FollowUser(ctx, &followerEntity.Follower{
		FollowerID: fid,
		AuthorID:   author.ID,
	}); err != nil {
		return err
	}
	config.Logger.Info("Followed", zap.String("followerID", followerID), zap.String("author", authorUsername))
	return nil
}

// Unfollow removes the edge if there is one.
func (s *FollowerService) Unfollow(ctx context.Context, followerID, authorUsername string) error {
	author, err := s.UserRepository.FindByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	return s.FollowerRepository.UnfollowUser(ctx, followerID, author.ID.String())
}

// IsFollowing reports whether followerID follows authorUsername. Anonymous
// viewers follow nobody.
func (s *FollowerService) IsFollowing(ctx context.Context, followerID, authorUsername string) (bool, error) {
	if followerID == "" {
		return false, nil
	}
	author, err := s.UserRepository.FindByUsername(ctx, authorUsername)
	if err != nil {
		return false, err
	}
	return s.FollowerRepository.IsFollowing(ctx, followerID, author.ID.String())
}

func (s *FollowerService) GetFollowers(ctx context.Context, authorID string) ([]*followerPort.FollowerDTO, error) {
	followers, err := s.FollowerRepository.GetFollowersByUserID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return toDTOs(followers), nil
}

func (s *FollowerService) GetFollowing(ctx context.Context, followerID string) ([]*followerPort.FollowerDTO, error) {
	following, err := s.FollowerRepository.GetFollowingByUserID(ctx, followerID)
	if err != nil {
		return nil, err
	}
	return toDTOs(following), nil
}

func toDTOs(edges []*followerEntity.Follower) []*followerPort.FollowerDTO {
	dtos := make([]*followerPort.FollowerDTO, 0, len(edges))
	for _, f := range edges {
		dtos = append(dtos, &followerPort.FollowerDTO{
			ID:         f.ID.String(),
			AuthorID:   f.AuthorID.String(),
			FollowerID: f.FollowerID.String(),
		})
	}
	return dtos
}
