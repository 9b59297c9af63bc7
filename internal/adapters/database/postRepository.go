package database

import (
	"context"

	"chronicle/internal/core/comment"
	"chronicle/internal/core/post"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepositoryDatabase implements PostRepository on gorm.
type PostRepositoryDatabase struct {
	db *gorm.DB
}

func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id string) (*post.Post, error) {
	var p post.Post
	if err := repo.db.WithContext(ctx).
		Preload("User").
		Preload("Group").
		Where("id = ?", id).
		First(&p).Error; err != nil {
		return nil, translate(err, "post "+id)
	}
	return &p, nil
}

// Update writes the editable columns only; created_at is never touched.
func (repo *PostRepositoryDatabase) Update(ctx context.Context, p *post.Post) error {
	return repo.db.WithContext(ctx).
		Model(&post.Post{}).
		Where("id = ?", p.ID).
		Select("text", "group_id", "image", "updated_at").
		Updates(map[string]interface{}{
			"text":       p.Text,
			"group_id":   p.GroupID,
			"image":      p.Image,
			"updated_at": p.UpdatedAt,
		}).Error
}

func (repo *PostRepositoryDatabase) Delete(ctx context.Context, id string) error {
	return repo.db.WithContext(ctx).Where("id = ?", id).Delete(&post.Post{}).Error
}

func (repo *PostRepositoryDatabase) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&post.Post{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *PostRepositoryDatabase) AddComment(ctx context.Context, c *comment.Comment) (*comment.Comment, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (repo *PostRepositoryDatabase) FindComments(ctx context.Context, postID string) ([]*comment.Comment, error) {
	var comments []*comment.Comment
	if err := repo.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
