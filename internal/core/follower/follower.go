package follower

import (
	"time"

	"chronicle/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Follower is a directed edge: FollowerID subscribes to AuthorID's posts.
// The unique index keeps at most one edge per pair.
type Follower struct {
	ID         uuid.UUID `gorm:"primaryKey;type:char(36)"`
	FollowerID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_follower_author,priority:1"`
	Follower   user.User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	AuthorID   uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_follower_author,priority:2;index"`
	Author     user.User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (f *Follower) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}
