package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"taskpulse-api/domain"
)

// streamSummary pushes the tasks summary over SSE on a fixed interval.
// Urgency advances with the clock even when no intent fires, so the stream
// re-evaluates the classifier on every tick.
func streamSummary(store Store, now func() time.Time, interval time.Duration) echo.HandlerFunc {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
		c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
		c.Response().Header().Set("X-Accel-Buffering", "no")
		flusher, ok := c.Response().Writer.(http.Flusher)
		if !ok {
			return c.String(http.StatusInternalServerError, "stream unsupported")
		}
		ctx := c.Request().Context()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			state := store.State()
			summary := domain.Summarize(state.Tasks, now())
			data, err := json.Marshal(summary)
			if err != nil {
				c.Logger().Error(err)
				return err
			}
			if _, err := c.Response().Write([]byte("data: ")); err != nil {
				return nil
			}
			if _, err := c.Response().Write(data); err != nil {
				return nil
			}
			if _, err := c.Response().Write([]byte("\n\n")); err != nil {
				return nil
			}
			flusher.Flush()
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				continue
			}
		}
	}
}
