package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxConnectRetries  = 5
	connectRetryPeriod = 5 * time.Second
)

// NewConnection opens the database, retrying a few times so the API can start
// alongside a database that is still booting, then runs migrations.
func NewConnection(databaseURL string, logLevel logger.LogLevel, log *logrus.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	for attempt := 1; attempt <= maxConnectRetries; attempt++ {
		db, err = Open(databaseURL, logLevel)
		if err == nil {
			break
		}
		log.WithFields(logrus.Fields{
			"attempt":    attempt,
			"maxRetries": maxConnectRetries,
		}).WithError(err).Error("Failed to connect to database")
		if attempt < maxConnectRetries {
			time.Sleep(connectRetryPeriod)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("max retries reached: %w", err)
	}
	log.Info("Successfully connected to database")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Open makes a single connection attempt. Driver errors are translated so that
// unique violations surface as gorm.ErrDuplicatedKey.
func Open(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates tables plus the partial unique indexes that make a like
// unique per (resource, user) independently for blogs and comments.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&domain.Blog{},
		&domain.Comment{},
		&domain.Like{},
	)
	if err != nil {
		return err
	}

	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_likes_blog_user ON likes (blog_id, user_id) WHERE blog_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_likes_comment_user ON likes (comment_id, user_id) WHERE comment_id IS NOT NULL`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:    NewUserRepository(db),
		Session: NewSessionRepository(db),
		Blog:    NewBlogRepository(db),
		Comment: NewCommentRepository(db),
		Like:    NewLikeRepository(db),
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", repository.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	default:
		return err
	}
}
