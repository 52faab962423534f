package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionRegistry is the durable record of issued refresh tokens. A refresh
// token is only honoured while its digest is present here.
type SessionRegistry struct {
	repo repository.SessionRepository
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewSessionRegistry(repo repository.SessionRepository, log logrus.FieldLogger) *SessionRegistry {
	return &SessionRegistry{repo: repo, log: log, now: time.Now}
}

// HashToken returns the hex SHA-256 digest under which a token is stored.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *SessionRegistry) Create(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: HashToken(token),
		ExpiresAt: expiresAt,
		CreatedAt: r.now(),
	}
	if err := r.repo.Create(ctx, session); err != nil {
		return err
	}

	r.log.WithFields(logrus.Fields{"userId": userID, "expiresAt": expiresAt}).Info("Refresh token created for user")
	return nil
}

// Revoke deletes the session for token. Revoking an unknown token succeeds.
func (r *SessionRegistry) Revoke(ctx context.Context, token string) error {
	if err := r.repo.DeleteByTokenHash(ctx, HashToken(token)); err != nil {
		return err
	}
	r.log.Info("Refresh token revoked")
	return nil
}

// RevokeAll ends every session of a user.
func (r *SessionRegistry) RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := r.repo.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	r.log.WithFields(logrus.Fields{"userId": userID, "revoked": n}).Info("All sessions revoked for user")
	return n, nil
}

func (r *SessionRegistry) IsLive(ctx context.Context, token string) (bool, error) {
	return r.repo.ExistsByTokenHash(ctx, HashToken(token))
}

// PurgeExpired removes sessions whose refresh token has passed its expiry.
func (r *SessionRegistry) PurgeExpired(ctx context.Context) (int64, error) {
	return r.repo.DeleteExpired(ctx, r.now())
}

// SessionReaper periodically purges expired sessions. Verification never
// depends on it; it only bounds table growth.
type SessionReaper struct {
	registry *SessionRegistry
	interval time.Duration
	log      logrus.FieldLogger
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

func NewSessionReaper(registry *SessionRegistry, interval time.Duration, log logrus.FieldLogger) *SessionReaper {
	return &SessionReaper{
		registry: registry,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (r *SessionReaper) Start() {
	go r.run()
}

func (r *SessionReaper) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.reap()
		}
	}
}

func (r *SessionReaper) reap() {
	ctx, cancel := context.WithTimeout(context.Background(), r.interval)
	defer cancel()

	n, err := r.registry.PurgeExpired(ctx)
	if err != nil {
		r.log.WithError(err).Error("Failed to purge expired sessions")
		return
	}
	if n > 0 {
		r.log.WithField("purged", n).Info("Purged expired sessions")
	}
}

// Stop halts the reaper and waits for an in-flight purge to finish.
func (r *SessionReaper) Stop() {
	r.once.Do(func() {
		close(r.stop)
	})
	<-r.done
}
