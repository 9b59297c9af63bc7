package config

import (
	"fmt"

	"chronicle/internal/core/comment"
	"chronicle/internal/core/follower"
	"chronicle/internal/core/group"
	"chronicle/internal/core/post"
	"chronicle/internal/core/user"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is the process-wide connection opened by InitDB.
var DB *gorm.DB

// OpenDB opens a gorm connection for the configured driver. SQLite DSNs should
// carry _foreign_keys=on so cascade rules are enforced.
func OpenDB(cfg DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql", "":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

// InitDB connects to the database and applies migrations.
func InitDB(cfg DatabaseConfig) {
	var err error
	DB, err = OpenDB(cfg)
	if err != nil {
		Logger.Fatal("Error connecting to the database", zap.String("driver", cfg.Driver), zap.Error(err))
	}
	Logger.Info("Database connected", zap.String("driver", cfg.Driver))

	if err := Migrate(DB); err != nil {
		Logger.Fatal("Error during migrations", zap.Error(err))
	}
	Logger.Info("✅ Database migrations completed")
}

// Migrate creates tables in dependency order so foreign keys resolve.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&group.Group{},
		&post.Post{},
		&comment.Comment{},
		&follower.Follower{},
	)
}
