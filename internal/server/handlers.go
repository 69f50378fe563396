package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mhenders/worklog/internal/calendar"
	"github.com/mhenders/worklog/internal/config"
	"github.com/mhenders/worklog/internal/discovery"
	"github.com/mhenders/worklog/internal/entry"
	"github.com/mhenders/worklog/internal/storage"
	"github.com/mhenders/worklog/internal/types"
)

type handler struct {
	cfg        *config.Config
	engine     *discovery.Engine
	entries    *entry.Manager
	calendar   *calendar.Service
	store      storage.Store
	summarizer RangeSummarizer
	tasks      *taskRegistry
	log        *log.Logger
}

func (h *handler) registerRoutes(api *gin.RouterGroup) {
	api.GET("/entries", h.listEntries)
	api.GET("/entries/:date", h.getEntry)
	api.PUT("/entries/:date", h.putEntry)
	api.DELETE("/entries/:date", h.deleteEntry)

	api.GET("/calendar/:year/:month", h.getCalendar)
	api.GET("/discovery", h.getDiscovery)

	api.GET("/settings", h.getSettings)
	api.PUT("/settings/:key", h.putSetting)

	api.POST("/summaries", h.postSummary)
	api.GET("/summaries", h.listSummaries)
	api.GET("/summaries/:id", h.getSummary)
	api.GET("/tasks/:id", h.getTask)
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// parseDateParam parses a YYYY-MM-DD path or query value.
func parseDateParam(value string) (time.Time, bool) {
	d, err := time.ParseInLocation(types.DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// parseRange reads start/end query params, defaulting to the last 7 days.
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	end := discovery.Date(now.Year(), now.Month(), now.Day())
	start := end.AddDate(0, 0, -6)
	if v := c.Query("start"); v != "" {
		d, ok := parseDateParam(v)
		if !ok {
			errorJSON(c, http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		start = d
	}
	if v := c.Query("end"); v != "" {
		d, ok := parseDateParam(v)
		if !ok {
			errorJSON(c, http.StatusBadRequest, "invalid end date, expected YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		end = d
	}
	return start, end, true
}

// GET /api/entries?start=&end=
func (h *handler) listEntries(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}
	entries, err := h.entries.List(c.Request.Context(), start, end)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start":   start.Format(types.DateLayout),
		"end":     end.Format(types.DateLayout),
		"entries": entries,
	})
}

// GET /api/entries/:date
func (h *handler) getEntry(c *gin.Context) {
	date, ok := parseDateParam(c.Param("date"))
	if !ok {
		errorJSON(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	e, err := h.entries.Read(c.Request.Context(), date)
	if errors.Is(err, entry.ErrNotFound) {
		errorJSON(c, http.StatusNotFound, "no entry for "+c.Param("date"))
		return
	}
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, e)
}

type putEntryRequest struct {
	Content string `json:"content"`
}

// PUT /api/entries/:date
func (h *handler) putEntry(c *gin.Context) {
	date, ok := parseDateParam(c.Param("date"))
	if !ok {
		errorJSON(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	var req putEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	e, err := h.entries.Write(c.Request.Context(), date, req.Content)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, e)
}

// DELETE /api/entries/:date
func (h *handler) deleteEntry(c *gin.Context) {
	date, ok := parseDateParam(c.Param("date"))
	if !ok {
		errorJSON(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if err := h.entries.Delete(c.Request.Context(), date); err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/calendar/:year/:month
func (h *handler) getCalendar(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		errorJSON(c, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		errorJSON(c, http.StatusBadRequest, "invalid month")
		return
	}
	c.JSON(http.StatusOK, h.calendar.MonthGrid(year, time.Month(month)))
}

// GET /api/discovery?start=&end=
func (h *handler) getDiscovery(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.entries.Discover(start, end))
}

// GET /api/settings
func (h *handler) getSettings(c *gin.Context) {
	settings, err := h.store.AllSettings(c.Request.Context())
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, settings)
}

type putSettingRequest struct {
	Value string `json:"value"`
}

// PUT /api/settings/:key
func (h *handler) putSetting(c *gin.Context) {
	var req putSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	key := c.Param("key")
	if err := h.store.SetSetting(c.Request.Context(), key, req.Value); err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": req.Value})
}

type postSummaryRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// POST /api/summaries starts an async summarization task.
func (h *handler) postSummary(c *gin.Context) {
	if h.summarizer == nil {
		errorJSON(c, http.StatusServiceUnavailable, "summarization is not configured (set ANTHROPIC_API_KEY)")
		return
	}
	var req postSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	start, ok := parseDateParam(req.Start)
	if !ok {
		errorJSON(c, http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD")
		return
	}
	end, ok := parseDateParam(req.End)
	if !ok {
		errorJSON(c, http.StatusBadRequest, "invalid end date, expected YYYY-MM-DD")
		return
	}
	if start.After(end) {
		errorJSON(c, http.StatusBadRequest, "start date is after end date")
		return
	}

	task := h.tasks.start(start, end)
	go h.runSummaryTask(task.ID, start, end)
	c.JSON(http.StatusAccepted, task)
}

func (h *handler) runSummaryTask(taskID string, start, end time.Time) {
	// Detached from the request context: the task outlives the 202.
	ctx := context.Background()
	h.tasks.setState(taskID, types.TaskRunning, "", "")
	summary, err := h.summarizer.SummarizeRange(ctx, start, end)
	if err != nil {
		h.log.Printf("server: summary task %s failed: %v", taskID, err)
		h.tasks.setState(taskID, types.TaskFailed, "", err.Error())
		return
	}
	h.tasks.setState(taskID, types.TaskDone, summary.ID, "")
}

// GET /api/tasks/:id
func (h *handler) getTask(c *gin.Context) {
	task, ok := h.tasks.get(c.Param("id"))
	if !ok {
		errorJSON(c, http.StatusNotFound, "unknown task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// GET /api/summaries
func (h *handler) listSummaries(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	summaries, err := h.store.ListSummaries(c.Request.Context(), limit)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	if summaries == nil {
		summaries = []*types.Summary{}
	}
	c.JSON(http.StatusOK, summaries)
}

// GET /api/summaries/:id
func (h *handler) getSummary(c *gin.Context) {
	summary, err := h.store.GetSummary(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		errorJSON(c, http.StatusNotFound, "unknown summary")
		return
	}
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}
