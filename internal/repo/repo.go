// Package repo is the server's relational store: users, chats and messages
// behind a small repository interface.
package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matheus3301/teleclone/internal/model"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Repository is the persistence surface used by the server.
type Repository interface {
	CountUsers(ctx context.Context) (int64, error)
	// FirstUser returns the earliest created user, or ok=false when there is none.
	FirstUser(ctx context.Context) (model.User, bool, error)
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	CreateChat(ctx context.Context, c model.Chat) error
	CreateMessage(ctx context.Context, m model.Message) error
}

// Gorm is a Repository backed by gorm.
type Gorm struct {
	db  *gorm.DB
	now func() time.Time
}

var _ Repository = (*Gorm)(nil)

// Open connects to driver/dsn and migrates the schema. Unique violations are
// reported as gorm.ErrDuplicatedKey.
func Open(driver, dsn string, logger *zap.Logger) (*Gorm, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite, "":
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}

	gormLog := gormLogger.New(
		zap.NewStdLog(logger.Named("gorm")),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", driver, err)
	}
	if err := db.AutoMigrate(&UserRow{}, &ChatRow{}, &MessageRow{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Gorm{db: db, now: time.Now}, nil
}

// Close releases the underlying connection pool.
func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (g *Gorm) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := g.db.WithContext(ctx).Model(&UserRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (g *Gorm) FirstUser(ctx context.Context) (model.User, bool, error) {
	var row UserRow
	err := g.db.WithContext(ctx).Order("created_at").Order("id").Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, fmt.Errorf("first user: %w", err)
	}
	return row.model(), true, nil
}

// CreateUser inserts u. A nil LastSeen is stored as now.
func (g *Gorm) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	row := userRow(u)
	if u.LastSeen == nil {
		row.LastSeen = g.now()
	}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.User{}, fmt.Errorf("create user %q: %w", u.ID, err)
	}
	return row.model(), nil
}

func (g *Gorm) CreateChat(ctx context.Context, c model.Chat) error {
	row := chatRow(c)
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create chat %q: %w", c.ID, err)
	}
	return nil
}

func (g *Gorm) CreateMessage(ctx context.Context, m model.Message) error {
	row := messageRow(m)
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create message %q: %w", m.ID, err)
	}
	return nil
}
