package api

import (
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskpulse-api/domain"
)

const requestMaxSize = 1 << 20

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, store Store, health HealthChecker, logger *log.Logger, streamInterval time.Duration) {
	e.GET("/healthz", healthz(health))
	e.GET("/api/state", getState(store))
	e.GET("/api/tasks", getTasks(store, time.Now))
	e.GET("/api/tasks/summary", getSummary(store, time.Now, logger))
	e.GET("/api/stream", streamSummary(store, time.Now, streamInterval))

	e.POST("/api/tasks", postTask(store))
	e.PATCH("/api/tasks/:id", patchTask(store))
	e.DELETE("/api/tasks/:id", deleteTask(store))
	e.PUT("/api/theme", putTheme(store))
	e.PUT("/api/user", putUser(store))
	e.POST("/api/focus", postFocus(store))
	e.DELETE("/api/focus", deleteFocus(store))
	e.POST("/api/teams", postTeam(store))
	e.POST("/api/teams/join", postJoinTeam(store))
	e.PUT("/api/teams/current", putCurrentTeam(store))
	e.POST("/api/onboarding/complete", postCompleteOnboarding(store))
}

func decodeBody(c echo.Context, v any) error {
	lr := io.LimitReader(c.Request().Body, requestMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func healthz(health HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := map[string]string{"status": "ok"}
		if health != nil {
			if err := health.Ping(c.Request().Context()); err != nil {
				// Loss of persistence degrades to in-memory operation, it
				// does not make the process unhealthy.
				status["storage"] = "unavailable"
			} else {
				status["storage"] = "ok"
			}
		}
		return c.JSON(http.StatusOK, status)
	}
}

func getState(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, store.State())
	}
}

func getTasks(store Store, now func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		tierFilter := c.QueryParam("tier")
		at := now()
		state := store.State()
		out := make([]domain.TaskUrgency, 0, len(state.Tasks))
		for _, t := range state.Tasks {
			u := domain.Classify(t, at)
			if tierFilter != "" && string(u.Tier) != tierFilter {
				continue
			}
			out = append(out, domain.TaskUrgency{Task: t, Urgency: u})
		}
		return c.JSON(http.StatusOK, tasksResponse{Tasks: out})
	}
}

func getSummary(store Store, now func() time.Time, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics := newSummaryRequestMetrics(logger)
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		stateStart := time.Now()
		state := store.State()
		metrics.ObserveState(time.Since(stateStart))

		classifyStart := time.Now()
		summary := domain.Summarize(state.Tasks, now())
		metrics.ObserveClassify(time.Since(classifyStart))
		metrics.SetTaskCounts(summary.Total, summary.Overdue)

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, summary)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func postTask(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req addTaskRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if req.Title == "" {
			return c.String(http.StatusBadRequest, "title is required")
		}
		store.Dispatch(c.Request().Context(), domain.AddTask{
			Title:       req.Title,
			Description: req.Description,
			Priority:    req.Priority,
			DueDate:     req.DueDate,
			Tags:        req.Tags,
		})
		return c.NoContent(http.StatusAccepted)
	}
}

func patchTask(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch domain.TaskPatch
		if err := decodeBody(c, &patch); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		// An unknown id is a no-op in the store, not an error.
		store.Dispatch(c.Request().Context(), domain.UpdateTask{ID: c.Param("id"), Patch: patch})
		return c.NoContent(http.StatusAccepted)
	}
}

func deleteTask(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		store.Dispatch(c.Request().Context(), domain.DeleteTask{ID: c.Param("id")})
		return c.NoContent(http.StatusAccepted)
	}
}

func putTheme(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req themeRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if req.Theme != domain.ThemeLight && req.Theme != domain.ThemeDark {
			return c.String(http.StatusBadRequest, "unknown theme")
		}
		store.Dispatch(c.Request().Context(), domain.SetTheme{Theme: req.Theme})
		return c.NoContent(http.StatusAccepted)
	}
}

func putUser(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var user domain.User
		if err := decodeBody(c, &user); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if user.ID == "" || user.Name == "" {
			return c.String(http.StatusBadRequest, "id and name are required")
		}
		if user.Role == "" {
			user.Role = domain.RoleUser
		}
		store.Dispatch(c.Request().Context(), domain.SetUser{User: user})
		return c.NoContent(http.StatusAccepted)
	}
}

func postFocus(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req focusRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if req.TaskID == "" {
			return c.String(http.StatusBadRequest, "taskId is required")
		}
		// The task is a weak reference; a dangling id is accepted.
		store.Dispatch(c.Request().Context(), domain.StartFocusSession{TaskID: req.TaskID})
		return c.NoContent(http.StatusAccepted)
	}
}

func deleteFocus(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		store.Dispatch(c.Request().Context(), domain.EndFocusSession{})
		return c.NoContent(http.StatusAccepted)
	}
}

func postTeam(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createTeamRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if req.Name == "" {
			return c.String(http.StatusBadRequest, "name is required")
		}
		store.Dispatch(c.Request().Context(), domain.CreateTeam{Name: req.Name, Description: req.Description})
		return c.NoContent(http.StatusAccepted)
	}
}

func postJoinTeam(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req joinTeamRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if req.InviteCode == "" {
			return c.String(http.StatusBadRequest, "inviteCode is required")
		}
		store.Dispatch(c.Request().Context(), domain.JoinTeam{InviteCode: req.InviteCode})
		return c.NoContent(http.StatusAccepted)
	}
}

func putCurrentTeam(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req currentTeamRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		store.Dispatch(c.Request().Context(), domain.SetCurrentTeam{Team: req.Team})
		return c.NoContent(http.StatusAccepted)
	}
}

func postCompleteOnboarding(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		store.Dispatch(c.Request().Context(), domain.CompleteOnboarding{})
		return c.NoContent(http.StatusAccepted)
	}
}
