package api

import (
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/zeebo/xxh3"

	"statsboard/internal/models"
)

// snapshot is an immutable view of one pipeline run.
type snapshot struct {
	report    *models.Report
	statsBody []byte
	etag      string
}

type Handler struct {
	data    atomic.Pointer[snapshot]
	failure atomic.Pointer[error]
}

// NewHandler accepts a nil report; routes answer 503 until SetData is called.
func NewHandler(report *models.Report) (*Handler, error) {
	h := &Handler{}
	if report != nil {
		if err := h.SetData(report); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// SetData publishes a finished report to the API.
func (h *Handler) SetData(report *models.Report) error {
	body, err := json.Marshal(report.Stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	h.data.Store(&snapshot{
		report:    report,
		statsBody: body,
		etag:      fmt.Sprintf(`"%016x"`, xxh3.Hash(body)),
	})
	return nil
}

// SetFailed marks the background pipeline as failed.
func (h *Handler) SetFailed(err error) {
	h.failure.Store(&err)
}

// Ready reports whether a report has been published.
func (h *Handler) Ready() bool {
	return h.data.Load() != nil
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	api := e.Group("/api", h.requireData)
	api.GET("/stats", h.GetStats)
	api.GET("/stats/table", h.GetStatsTable)
	api.GET("/stats/:key", h.GetStat)
	api.GET("/summary", h.GetSummary)
	api.GET("/rows", h.GetRows)
	api.GET("/rules", h.GetRules)
}

// requireData answers 503 while loading and 500 after a failed run.
func (h *Handler) requireData(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.Ready() {
			return next(c)
		}
		if errp := h.failure.Load(); errp != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "pipeline failed").SetInternal(*errp)
		}
		return echo.NewHTTPError(http.StatusServiceUnavailable, "data is loading")
	}
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handler) Health(c echo.Context) error {
	if !h.Ready() {
		status := "loading"
		if h.failure.Load() != nil {
			status = "failed"
		}
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": status})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetStats returns the full result; the ETag is a hash of the body.
func (h *Handler) GetStats(c echo.Context) error {
	s := h.data.Load()
	c.Response().Header().Set("ETag", s.etag)
	if c.Request().Header.Get("If-None-Match") == s.etag {
		return c.NoContent(http.StatusNotModified)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, s.statsBody)
}

func (h *Handler) GetStatsTable(c echo.Context) error {
	return c.JSON(http.StatusOK, h.data.Load().report.Table)
}

func (h *Handler) GetStat(c echo.Context) error {
	key := c.Param("key")
	v, ok := h.data.Load().report.Stats.Lookup(key)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown statistic %q", key))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"key":   key,
		"value": v,
	})
}

func (h *Handler) GetSummary(c echo.Context) error {
	r := h.data.Load().report
	msg := fmt.Sprintf("%d of %d rows matched", r.MatchedRows, r.TotalRows)
	if r.MatchedRows == 0 {
		msg = "no valid rows found, check the rules"
	}
	return c.JSON(http.StatusOK, models.Summary{
		Source:      r.Source,
		TotalRows:   r.TotalRows,
		MatchedRows: r.MatchedRows,
		Rules:       r.Rules,
		Message:     msg,
	})
}

// GetRows pages through the filtered rows.
func (h *Handler) GetRows(c echo.Context) error {
	rows := h.data.Load().report.Rows
	total := len(rows)
	limit, offset := getPaginationParams(c, total)

	if offset >= total {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"data":   []map[string]float64{},
			"total":  total,
			"limit":  limit,
			"offset": offset,
		})
	}

	end := offset + limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   rows[offset:end],
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetRules(c echo.Context) error {
	r := h.data.Load().report
	file := r.RulesFile
	if file == nil {
		file = []string{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"active": r.Rules,
		"file":   file,
	})
}
