package feedapp

import (
	"context"
	"fmt"

	"chronicle/internal/core/apperr"
	"chronicle/internal/paginator"
	feedPort "chronicle/internal/ports/feed"
	followerPort "chronicle/internal/ports/follower"
	groupPort "chronicle/internal/ports/group"
	postPort "chronicle/internal/ports/post"
	userPort "chronicle/internal/ports/user"
)

// FeedService composes the newest-first post listings. Every feed is a pure
// read: one count and one windowed query.
type FeedService struct {
	FeedRepository     feedPort.FeedRepository
	UserRepository     userPort.UserRepository
	GroupRepository    groupPort.GroupRepository
	FollowerRepository followerPort.FollowerRepository
	perPage            int
}

func NewFeedService(
	feedRepo feedPort.FeedRepository,
	userRepo userPort.UserRepository,
	groupRepo groupPort.GroupRepository,
	followerRepo followerPort.FollowerRepository,
	perPage int,
) *FeedService {
	if perPage <= 0 {
		perPage = paginator.PerPage
	}
	return &FeedService{
		FeedRepository:     feedRepo,
		UserRepository:     userRepo,
		GroupRepository:    groupRepo,
		FollowerRepository: followerRepo,
		perPage:            perPage,
	}
}

func (s *FeedService) PerPage() int {
	return s.perPage
}

func (s *FeedService) page(ctx context.Context, filter feedPort.Filter, number int) (feedPort.PageDTO, error) {
	total, err := s.FeedRepository.CountPosts(ctx, filter)
	if err != nil {
		return feedPort.PageDTO{}, err
	}
	page, err := paginator.New(total, s.perPage, number)
	if err != nil {
		return feedPort.PageDTO{}, err
	}

	posts, err := s.FeedRepository.ListPosts(ctx, filter, page.Offset(), page.Limit())
	if err != nil {
		return feedPort.PageDTO{}, err
	}
	return feedPort.PageDTO{Posts: postPort.ToDTOs(posts), Page: page}, nil
}

func (s *FeedService) GlobalFeed(ctx context.Context, number int) (*feedPort.PageDTO, error) {
	result, err := s.page(ctx, feedPort.Filter{}, number)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *FeedService) GroupFeed(ctx context.Context, slug string, number int) (*feedPort.GroupPageDTO, error) {
	g, err := s.GroupRepository.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	result, err := s.page(ctx, feedPort.Filter{GroupID: g.ID.String()}, number)
	if err != nil {
		return nil, err
	}
	return &feedPort.GroupPageDTO{PageDTO: result, Group: groupPort.ToDTO(g)}, nil
}

// ProfileFeed lists one author's posts. viewerID may be empty for anonymous
// viewers, in which case Following is false.
func (s *FeedService) ProfileFeed(ctx context.Context, username, viewerID string, number int) (*feedPort.ProfilePageDTO, error) {
	author, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	result, err := s.page(ctx, feedPort.Filter{AuthorID: author.ID.String()}, number)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != "" && viewerID != author.ID.String() {
		following, err = s.FollowerRepository.IsFollowing(ctx, viewerID, author.ID.String())
		if err != nil {
			return nil, err
		}
	}
	return &feedPort.ProfilePageDTO{
		PageDTO:    result,
		Author:     userPort.ToDTO(author),
		PostsCount: result.Page.Total,
		Following:  following,
	}, nil
}

// FollowFeed lists posts by authors the viewer follows.
func (s *FeedService) FollowFeed(ctx context.Context, viewerID string, number int) (*feedPort.PageDTO, error) {
	if viewerID == "" {
		return nil, fmt.Errorf("%w: follow feed needs a signed in user", apperr.ErrUnauthorized)
	}
	result, err := s.page(ctx, feedPort.Filter{FollowerID: viewerID}, number)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
