package domain

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Persister mirrors the persisted slice of the aggregate to a durable
// key-value surface. Each method writes exactly one key.
type Persister interface {
	SaveTheme(ctx context.Context, theme Theme) error
	SaveUser(ctx context.Context, user User) error
	SaveTasks(ctx context.Context, tasks []Task) error
}

// Store owns the application aggregate and applies intents to it. Dispatch
// is serialized by a mutex so no intent's effect interleaves with another's;
// persistence writes are best effort and never surface to callers.
type Store struct {
	mu        sync.Mutex
	state     AppState
	persister Persister
	now       func() time.Time
	lastID    int64
}

// NewStore creates a store holding the default aggregate. The persister may
// be nil, in which case state is purely in-memory.
func NewStore(p Persister) *Store {
	return &Store{
		state:     NewAppState(),
		persister: p,
		now:       time.Now,
	}
}

// State returns a copy of the aggregate safe for callers to read and hold.
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// changed marks which persisted keys an intent touched. Keys are written
// independently: a task change never rewrites the user key.
type changed struct {
	theme bool
	user  bool
	tasks bool
}

// Dispatch applies the intent synchronously and mirrors any persisted key it
// touched. Unknown intents leave the aggregate unchanged.
func (s *Store) Dispatch(ctx context.Context, in Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := s.apply(in)
	if s.persister == nil {
		return
	}
	if ch.theme {
		if err := s.persister.SaveTheme(ctx, s.state.Theme); err != nil {
			log.WithError(err).Warn("failed to persist theme")
		}
	}
	if ch.user && s.state.User != nil {
		if err := s.persister.SaveUser(ctx, *s.state.User); err != nil {
			log.WithError(err).Warn("failed to persist user")
		}
	}
	if ch.tasks {
		if err := s.persister.SaveTasks(ctx, cloneTasks(s.state.Tasks)); err != nil {
			log.WithError(err).Warn("failed to persist tasks")
		}
	}
}

func (s *Store) apply(in Intent) changed {
	switch in := in.(type) {
	case SetUser:
		u := in.User
		s.state.User = &u
		return changed{user: true}
	case SetTheme:
		s.state.Theme = in.Theme
		return changed{theme: true}
	case AddTask:
		s.state.Tasks = append(s.state.Tasks, s.newTask(in))
		return changed{tasks: true}
	case UpdateTask:
		for i := range s.state.Tasks {
			if s.state.Tasks[i].ID != in.ID {
				continue
			}
			s.mergeTask(&s.state.Tasks[i], in.Patch)
			return changed{tasks: true}
		}
		return changed{}
	case DeleteTask:
		for i := range s.state.Tasks {
			if s.state.Tasks[i].ID == in.ID {
				s.state.Tasks = append(s.state.Tasks[:i], s.state.Tasks[i+1:]...)
				return changed{tasks: true}
			}
		}
		return changed{}
	case ReplaceTasks:
		s.state.Tasks = cloneTasks(in.Tasks)
		if s.state.Tasks == nil {
			s.state.Tasks = []Task{}
		}
		return changed{tasks: true}
	case StartFocusSession:
		s.state.FocusSession = &FocusSession{
			ID:        uuid.NewString(),
			TaskID:    in.TaskID,
			CreatedAt: s.now(),
		}
		return changed{}
	case EndFocusSession:
		s.state.FocusSession = nil
		return changed{}
	case CreateTeam:
		team := Team{
			ID:          uuid.NewString(),
			Name:        in.Name,
			Description: in.Description,
			Members:     []string{},
			InviteCode:  NewInviteCode(),
			CreatedAt:   s.now(),
		}
		if s.state.User != nil {
			team.AdminID = s.state.User.ID
			team.Members = []string{s.state.User.ID}
		}
		s.state.Teams = append(s.state.Teams, team)
		return changed{}
	case JoinTeam:
		team := Team{
			ID:         uuid.NewString(),
			Name:       "Team " + in.InviteCode,
			Members:    []string{},
			InviteCode: in.InviteCode,
			CreatedAt:  s.now(),
		}
		if s.state.User != nil {
			team.Members = []string{s.state.User.ID}
		}
		s.state.Teams = append(s.state.Teams, team)
		current := cloneTeam(team)
		s.state.CurrentTeam = &current
		return changed{}
	case SetCurrentTeam:
		if in.Team == nil {
			s.state.CurrentTeam = nil
		} else {
			t := cloneTeam(*in.Team)
			s.state.CurrentTeam = &t
		}
		return changed{}
	case CompleteOnboarding:
		s.state.IsOnboarding = false
		return changed{}
	default:
		return changed{}
	}
}

func (s *Store) newTask(in AddTask) Task {
	t := Task{
		ID:          s.nextTaskID(),
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      StatusTodo,
		CreatedAt:   s.now(),
		Tags:        []string{},
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if in.DueDate != nil {
		due := *in.DueDate
		t.DueDate = &due
	}
	if in.Tags != nil {
		t.Tags = append([]string(nil), in.Tags...)
	}
	if s.state.User != nil {
		t.UserID = s.state.User.ID
	}
	return t
}

// mergeTask applies the patch in place. Status transitions keep the
// completedAt-iff-done invariant: completing without an explicit timestamp
// stamps the clock, and leaving done clears it.
func (s *Store) mergeTask(t *Task, p TaskPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.Tags != nil {
		t.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.CompletedAt != nil {
		at := *p.CompletedAt
		t.CompletedAt = &at
	}
	if p.Status != nil {
		t.Status = *p.Status
		if t.Status == StatusDone {
			if t.CompletedAt == nil {
				at := s.now()
				t.CompletedAt = &at
			}
		} else {
			t.CompletedAt = nil
		}
	}
}

// nextTaskID returns a monotonic nanosecond timestamp id so back-to-back
// adds in the same clock tick still get distinct ids.
func (s *Store) nextTaskID() string {
	now := s.now().UnixNano()
	if now <= s.lastID {
		now = s.lastID + 1
	}
	s.lastID = now
	return strconv.FormatInt(now, 10)
}
