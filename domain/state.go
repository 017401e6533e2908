package domain

// Theme selects the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// AppState is the single application aggregate. Exactly one instance exists
// per process, owned by a Store; only theme, user and tasks survive a
// restart, the rest is session scoped.
type AppState struct {
	User         *User         `json:"user"`
	Tasks        []Task        `json:"tasks"`
	Teams        []Team        `json:"teams"`
	CurrentTeam  *Team         `json:"currentTeam"`
	FocusSession *FocusSession `json:"focusSession"`
	Theme        Theme         `json:"theme"`
	IsOnboarding bool          `json:"isOnboarding"`
}

// NewAppState returns the aggregate defaults used before rehydration.
func NewAppState() AppState {
	return AppState{
		Tasks:        []Task{},
		Teams:        []Team{},
		Theme:        ThemeLight,
		IsOnboarding: true,
	}
}

func (st AppState) clone() AppState {
	out := st
	if st.User != nil {
		u := *st.User
		out.User = &u
	}
	out.Tasks = cloneTasks(st.Tasks)
	if st.Teams != nil {
		out.Teams = make([]Team, len(st.Teams))
		for i, t := range st.Teams {
			out.Teams[i] = cloneTeam(t)
		}
	}
	if st.CurrentTeam != nil {
		t := cloneTeam(*st.CurrentTeam)
		out.CurrentTeam = &t
	}
	if st.FocusSession != nil {
		f := *st.FocusSession
		out.FocusSession = &f
	}
	return out
}
