package storage

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"taskpulse-api/domain"
)

// Fixed keys on the durable surface. Only these three slices of the
// aggregate are persisted; teams, the current team, the focus session and
// the onboarding flag are session scoped and reset on restart.
const (
	themeKey = "taskpulse:theme"
	userKey  = "taskpulse:user"
	tasksKey = "taskpulse:tasks"
)

// Storage mirrors the persisted slice of the aggregate to Redis.
type Storage struct {
	redis *redis.Client
}

// New creates a Storage backed by the given Redis client.
func New(client *redis.Client) *Storage {
	return &Storage{redis: client}
}

// Snapshot holds whatever survived the previous process, one field per key.
// Zero values mean the key was absent or unreadable.
type Snapshot struct {
	Theme domain.Theme
	User  *domain.User
	Tasks []domain.Task
}

// Load reads each persisted key once at startup. A missing key keeps its
// default; a corrupt blob is logged and discarded without touching the other
// keys. Startup never fails on bad persisted data.
func (s *Storage) Load(ctx context.Context) Snapshot {
	var snap Snapshot

	if data, ok := s.get(ctx, themeKey); ok {
		theme := domain.Theme(data)
		if theme == domain.ThemeLight || theme == domain.ThemeDark {
			snap.Theme = theme
		} else {
			log.WithField("key", themeKey).Warn("discarding unknown persisted theme")
		}
	}

	if data, ok := s.get(ctx, userKey); ok {
		var user domain.User
		if err := json.Unmarshal(data, &user); err != nil {
			log.WithError(err).WithField("key", userKey).Warn("discarding corrupt persisted user")
		} else {
			snap.User = &user
		}
	}

	if data, ok := s.get(ctx, tasksKey); ok {
		var tasks []domain.Task
		if err := json.Unmarshal(data, &tasks); err != nil {
			log.WithError(err).WithField("key", tasksKey).Warn("discarding corrupt persisted tasks")
		} else {
			snap.Tasks = tasks
		}
	}

	return snap
}

func (s *Storage) get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).WithField("key", key).Warn("failed to read persisted key")
		}
		return nil, false
	}
	return data, true
}

// SaveTheme writes the theme key only, as the bare string literal.
func (s *Storage) SaveTheme(ctx context.Context, theme domain.Theme) error {
	return s.redis.Set(ctx, themeKey, string(theme), 0).Err()
}

// SaveUser serializes and writes the user key only.
func (s *Storage) SaveUser(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, userKey, data, 0).Err()
}

// SaveTasks serializes and writes the tasks key only. Timestamps marshal as
// RFC 3339 strings and restore to time.Time on the next Load.
func (s *Storage) SaveTasks(ctx context.Context, tasks []domain.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, tasksKey, data, 0).Err()
}

// Ping reports whether the durable surface is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}
