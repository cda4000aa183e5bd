// Package session persists browser sessions for the HTTP server. Each row
// holds a GitHub login plus the OAuth access token, encrypted at rest so a
// copied database file does not leak credentials.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domainErrors "readmeforge/internal/errors"
	"readmeforge/internal/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// SessionModel is the GORM row. The token column stores the secretbox
// ciphertext, never the raw token.
type SessionModel struct {
	ID        string    `gorm:"primaryKey"`
	Login     string    `gorm:"not null;default:''"`
	Token     []byte    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index:idx_sessions_expires_at"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SessionModel) TableName() string {
	return "sessions"
}

// Session is the decrypted view handed to callers after a lookup.
type Session struct {
	ID        string
	Login     string
	Token     string
	ExpiresAt time.Time
}

// gormLogger routes GORM output through the application logger.
type gormLogger struct {
	level gormlogger.LogLevel
}

func newGormLogger() gormlogger.Interface {
	return &gormLogger{level: gormlogger.Warn}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		logger.Info(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		logger.Warn(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		logger.Error(ctx, fmt.Sprintf(msg, data...), nil)
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		logger.Error(ctx, "session query failed", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	case elapsed > slowQueryThreshold:
		logger.Warn(ctx, "slow session query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	case l.level >= gormlogger.Info:
		logger.Debug(ctx, "session query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

// Store keeps sessions in a local SQLite database.
type Store struct {
	db  *gorm.DB
	key [keySize]byte
	ttl time.Duration
	now func() time.Time
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithClock overrides the time source, used by tests to control expiry.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore opens, or creates, the session database at dbPath. The secret
// must be exactly 32 bytes, it becomes the secretbox key for tokens at rest.
func NewStore(dbPath string, secret []byte, ttl time.Duration, opts ...StoreOption) (*Store, error) {
	if len(secret) != keySize {
		return nil, domainErrors.ErrSessionSecretInvalid.WithContext("length", len(secret))
	}

	if strings.HasPrefix(dbPath, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, domainErrors.ErrSessionStoreUnavailable.WithError(err)
		}
		dbPath = filepath.Join(homeDir, dbPath[1:])
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, domainErrors.ErrSessionStoreUnavailable.
				WithError(err).
				WithContext("path", dbPath)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		PrepareStmt: false,
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, domainErrors.ErrSessionStoreUnavailable.
			WithError(err).
			WithContext("path", dbPath)
	}

	// WAL keeps readers alive while the sweeper deletes expired rows.
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")

	if err := db.AutoMigrate(&SessionModel{}); err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return nil, domainErrors.ErrSessionStoreUnavailable.
				WithError(err).
				WithContext("reason", "schema migration failed")
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, domainErrors.ErrSessionStoreUnavailable.WithError(err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	s := &Store{db: db, ttl: ttl, now: time.Now}
	copy(s.key[:], secret)

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Create mints a new session for a login and access token and returns it
// with the opaque id the browser will carry.
func (s *Store) Create(ctx context.Context, login, token string) (*Session, error) {
	box, err := sealToken(&s.key, token)
	if err != nil {
		return nil, err
	}

	record := SessionModel{
		ID:        uuid.NewString(),
		Login:     login,
		Token:     box,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, domainErrors.ErrSessionStoreUnavailable.WithError(err)
	}

	return &Session{
		ID:        record.ID,
		Login:     login,
		Token:     token,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// Lookup resolves a session id to its decrypted session. An unknown id means
// the caller never logged in, an expired or unreadable row means the session
// ended and the caller has to log in again.
func (s *Store) Lookup(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, domainErrors.ErrAuthRequired
	}

	var record SessionModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrAuthRequired
		}
		return nil, domainErrors.ErrSessionStoreUnavailable.WithError(err)
	}

	if !s.now().Before(record.ExpiresAt) {
		// The row is dead weight now, drop it on the way out.
		if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&SessionModel{}).Error; err != nil {
			logger.Warn(ctx, "failed to delete expired session", "session_id", id)
		}
		return nil, domainErrors.ErrSessionExpired
	}

	token, err := openToken(&s.key, record.Token)
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:        record.ID,
		Login:     record.Login,
		Token:     token,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// Delete ends a session. Deleting an id that does not exist is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&SessionModel{}).Error; err != nil {
		return domainErrors.ErrSessionStoreUnavailable.WithError(err)
	}
	return nil
}

// DeleteExpired removes every session whose expiry has passed and reports
// how many rows went.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now().UTC()).Delete(&SessionModel{})
	if result.Error != nil {
		return 0, domainErrors.ErrSessionStoreUnavailable.WithError(result.Error)
	}

	if result.RowsAffected > 0 {
		logger.Debug(ctx, "swept expired sessions", "count", result.RowsAffected)
	}

	return result.RowsAffected, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
