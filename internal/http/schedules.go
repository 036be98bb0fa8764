package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"mailsched/internal/metrics"
	"mailsched/internal/store"
)

type createReq struct {
	Recipient   string    `json:"recipient"`
	Payload     string    `json:"payload"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func createScheduleHandler(st *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		req.Payload = strings.TrimSpace(req.Payload)

		item, err := st.Create(req.Recipient, req.Payload, req.ScheduledAt)
		if err != nil {
			if ve, ok := store.AsValidation(err); ok {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": string(ve.Kind)})
			}

			log.Errorf("create schedule failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}

		metrics.SchedulesTotal.WithLabelValues("created").Inc()

		return c.JSON(http.StatusCreated, item)
	}
}

func listSchedulesHandler(st *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		recipient := strings.TrimSpace(c.QueryParam("recipient"))
		items := st.List(recipient)

		return c.JSON(http.StatusOK, map[string]any{
			"count":   len(items),
			"results": items,
		})
	}
}

func deleteScheduleHandler(st *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		if err := st.Delete(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
			}

			log.Errorf("delete schedule failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}

		metrics.SchedulesTotal.WithLabelValues("deleted").Inc()

		return c.JSON(http.StatusOK, map[string]any{"deleted": true, "id": id})
	}
}
