package post

import (
	"time"

	"chronicle/internal/core/group"
	"chronicle/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Post is owned by its author (deleted with them) and only references its group:
// deleting the group clears GroupID.
type Post struct {
	ID        uuid.UUID    `gorm:"primaryKey;type:char(36)"`
	Text      string       `gorm:"type:text;not null"`
	Image     string       `gorm:"type:varchar(255);not null;default:''"`
	UserID    uuid.UUID    `gorm:"type:char(36);not null;index:idx_posts_user_created,priority:1"`
	User      user.User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	GroupID   *uuid.UUID   `gorm:"type:char(36);index"`
	Group     *group.Group `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`
	CreatedAt time.Time    `gorm:"autoCreateTime;index;index:idx_posts_user_created,priority:2"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}
