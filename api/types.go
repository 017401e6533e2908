package api

import (
	"context"
	"time"

	"taskpulse-api/domain"
)

// Store abstracts the state store for handlers: read the aggregate, dispatch
// intents. The store applies intents as given, so handlers validate payload
// shape before dispatching.
type Store interface {
	State() domain.AppState
	Dispatch(ctx context.Context, in domain.Intent)
}

// HealthChecker reports whether the durable surface is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type addTaskRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    domain.Priority `json:"priority"`
	DueDate     *time.Time      `json:"dueDate"`
	Tags        []string        `json:"tags"`
}

type themeRequest struct {
	Theme domain.Theme `json:"theme"`
}

type focusRequest struct {
	TaskID string `json:"taskId"`
}

type createTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type joinTeamRequest struct {
	InviteCode string `json:"inviteCode"`
}

type currentTeamRequest struct {
	Team *domain.Team `json:"team"`
}

type tasksResponse struct {
	Tasks []domain.TaskUrgency `json:"tasks"`
}
