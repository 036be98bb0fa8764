package http

import (
	"net/http"

	echo "github.com/labstack/echo/v4"

	"mailsched/internal/notifier"
	"mailsched/internal/store"
)

// statusHandler serves a read-only diagnostic aggregate: item counts by
// status plus whether the delivery channel is configured at all.
func statusHandler(st *store.Store, n notifier.Notifier) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats := st.Stats()

		return c.JSON(http.StatusOK, map[string]any{
			"total":               stats.Total,
			"pending":             stats.Pending,
			"sent":                stats.Sent,
			"notifier_configured": n.Configured(),
		})
	}
}
