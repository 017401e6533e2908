package domain

import "time"

// Intent is a named request to mutate the application aggregate. The set is
// sealed: only types in this package satisfy it, and the reducer treats
// anything else (including nil) as a no-op rather than an error.
type Intent interface{ isIntent() }

// SetUser replaces the current user and leaves everything else untouched.
type SetUser struct{ User User }

// SetTheme replaces the UI theme.
type SetTheme struct{ Theme Theme }

// AddTask appends a freshly created task. ID, CreatedAt and UserID are
// stamped by the store at dispatch, never supplied by the caller.
type AddTask struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
	Tags        []string
}

// UpdateTask shallow-merges the patch into the matching task. Unknown ids
// are a no-op.
type UpdateTask struct {
	ID    string
	Patch TaskPatch
}

// DeleteTask removes the matching task. Unknown ids are a no-op.
type DeleteTask struct{ ID string }

// ReplaceTasks swaps the whole task collection. Used only during
// rehydration.
type ReplaceTasks struct{ Tasks []Task }

// StartFocusSession replaces the active session with a fresh one. An
// unfinished prior session is overwritten silently (last writer wins).
type StartFocusSession struct{ TaskID string }

// EndFocusSession clears the active session. Idempotent.
type EndFocusSession struct{}

// CreateTeam appends a new team with the acting user as admin and sole
// member, with a generated invite code.
type CreateTeam struct {
	Name        string
	Description string
}

// JoinTeam synthesizes a membership record for the given invite code,
// appends it and makes it the current team.
type JoinTeam struct{ InviteCode string }

// SetCurrentTeam replaces the current team directly.
type SetCurrentTeam struct{ Team *Team }

// CompleteOnboarding marks the onboarding wizard as finished.
type CompleteOnboarding struct{}

func (SetUser) isIntent()            {}
func (SetTheme) isIntent()           {}
func (AddTask) isIntent()            {}
func (UpdateTask) isIntent()         {}
func (DeleteTask) isIntent()         {}
func (ReplaceTasks) isIntent()       {}
func (StartFocusSession) isIntent()  {}
func (EndFocusSession) isIntent()    {}
func (CreateTeam) isIntent()         {}
func (JoinTeam) isIntent()           {}
func (SetCurrentTeam) isIntent()     {}
func (CompleteOnboarding) isIntent() {}
