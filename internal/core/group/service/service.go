package groupapp

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"chronicle/internal/config"
	"chronicle/internal/core/apperr"
	groupEntity "chronicle/internal/core/group"
	groupPort "chronicle/internal/ports/group"

	"go.uber.org/zap"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CreateGroupInput struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type GroupService struct {
	GroupRepository groupPort.GroupRepository
}

func NewGroupService(repo groupPort.GroupRepository) *GroupService {
	return &GroupService{GroupRepository: repo}
}

func (in CreateGroupInput) validate() error {
	v := apperr.NewValidationError()
	switch title := strings.TrimSpace(in.Title); {
	case title == "":
		v.Add("title", "is required")
	case utf8.RuneCountInString(title) > 200:
		v.Add("title", "must be at most 200 characters")
	}
	switch {
	case in.Slug == "":
		v.Add("slug", "is required")
	case len(in.Slug) > 50:
		v.Add("slug", "must be at most 50 characters")
	case !slugPattern.MatchString(in.Slug):
		v.Add("slug", "may contain only letters, digits, hyphens and underscores")
	}
	if strings.TrimSpace(in.Description) == "" {
		v.Add("description", "is required")
	}
	return v.OrNil()
}

func (s *GroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (*groupPort.GroupDTO, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	g, err := s.GroupRepository.Create(ctx, &groupEntity.Group{
		Title:       strings.TrimSpace(in.Title),
		Slug:        in.Slug,
		Description: in.Description,
	})
	if errors.Is(err, apperr.ErrConflict) {
		v := apperr.NewValidationError()
		v.Add("slug", "already exists")
		return nil, v
	}
	if err != nil {
		return nil, err
	}

	config.Logger.Info("✅ Group created", zap.String("slug", g.Slug))
	return groupPort.ToDTO(g), nil
}

func (s *GroupService) GetBySlug(ctx context.Context, slug string) (*groupPort.GroupDTO, error) {
	g, err := s.GroupRepository.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return groupPort.ToDTO(g), nil
}

func (s *GroupService) ListGroups(ctx context.Context) ([]*groupPort.GroupDTO, error) {
	groups, err := s.GroupRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]*groupPort.GroupDTO, 0, len(groups))
	for _, g := range groups {
		dtos = append(dtos, groupPort.ToDTO(g))
	}
	return dtos, nil
}

// DeleteGroup removes the group; its posts stay, without a group.
func (s *GroupService) DeleteGroup(ctx context.Context, slug string) error {
	g, err := s.GroupRepository.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.GroupRepository.Delete(ctx, g.ID.String()); err != nil {
		return err
	}
	config.Logger.Info("🗑 Group deleted", zap.String("slug", slug))
	return nil
}
