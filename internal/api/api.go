package api

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"price-engine/internal/models"
	"price-engine/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

type APIHandler struct {
	db     *gorm.DB
	store  *pricing.GormStore
	engine *pricing.Engine

	// run job state
	jobMu sync.Mutex
	job   *runJob

	// websocket progress feed
	wsMu      sync.Mutex
	wsClients map[*websocket.Conn]bool
}

type runJob struct {
	Running   bool       `json:"running"`
	StartedAt time.Time  `json:"started_at"`
	AsOf      time.Time  `json:"as_of"`
	Processed int        `json:"processed"`
	Total     int        `json:"total"`
	Done      *time.Time `json:"done,omitempty"`
	Error     string     `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local tooling only
	},
}

func SetupRoutes(r *gin.RouterGroup, db *gorm.DB, engine *pricing.Engine, store *pricing.GormStore) *APIHandler {
	handler := &APIHandler{
		db:        db,
		store:     store,
		engine:    engine,
		wsClients: make(map[*websocket.Conn]bool),
	}

	recs := r.Group("/recommendations")
	{
		recs.GET("", handler.ListRecommendations)
		recs.GET("/:groupid", handler.EvaluateGroup)
	}

	runs := r.Group("/runs")
	{
		runs.POST("", handler.StartRun)
		runs.GET("/status", handler.RunStatus)
		runs.GET("/ws", handler.RunProgressWS)
	}

	r.GET("/actions", handler.ListActions)

	return handler
}

// ListRecommendations returns the persisted output of the most recent run,
// optionally filtered by kind or group.
func (h *APIHandler) ListRecommendations(c *gin.Context) {
	var latest models.Recommendation
	err := h.db.Order("run_date DESC").First(&latest).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusOK, gin.H{"run_date": nil, "recommendations": []models.Recommendation{}})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	q := h.db.Where("run_date = ?", latest.RunDate)
	if kind := c.Query("kind"); kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if groupID := c.Query("groupid"); groupID != "" {
		q = q.Where("groupid = ?", groupID)
	}

	var rows []models.Recommendation
	if err := q.Order("groupid, kind").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_date":        latest.RunDate.Format("2006-01-02"),
		"count":           len(rows),
		"recommendations": rows,
	})
}

// EvaluateGroup runs a live evaluation of one product against the current
// catalog state. Nothing is persisted.
func (h *APIHandler) EvaluateGroup(c *gin.Context) {
	groupID := c.Param("groupid")
	res := h.engine.EvaluateGroup(c.Request.Context(), groupID, time.Now())
	if res.Err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": res.Err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"groupid":         res.GroupID,
		"skipped":         res.Skipped,
		"skip_reason":     res.SkipReason,
		"recommendations": res.Recommendations,
	})
}

// ListActions returns the latest health classifications, grouped by action.
func (h *APIHandler) ListActions(c *gin.Context) {
	var latest models.Recommendation
	err := h.db.Where("kind = ?", string(pricing.KindAction)).
		Order("run_date DESC").First(&latest).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusOK, gin.H{"actions": gin.H{}})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var rows []models.Recommendation
	err = h.db.Where("kind = ? AND run_date = ?", string(pricing.KindAction), latest.RunDate).
		Order("groupid").Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	byAction := make(map[string][]models.Recommendation)
	for _, r := range rows {
		byAction[r.Action] = append(byAction[r.Action], r)
	}
	c.JSON(http.StatusOK, gin.H{
		"run_date": latest.RunDate.Format("2006-01-02"),
		"actions":  byAction,
	})
}

// StartRun kicks off a full catalog evaluation in the background. Only one
// run may be in flight at a time.
func (h *APIHandler) StartRun(c *gin.Context) {
	h.jobMu.Lock()
	if h.job != nil && h.job.Running {
		h.jobMu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "a run is already in progress"})
		return
	}
	asOf := time.Now()
	job := &runJob{Running: true, StartedAt: time.Now(), AsOf: asOf}
	h.job = job
	h.jobMu.Unlock()

	go h.runEngine(job, asOf)

	c.JSON(http.StatusAccepted, gin.H{"status": "started", "as_of": asOf.Format("2006-01-02")})
}

func (h *APIHandler) runEngine(job *runJob, asOf time.Time) {
	ctx := context.Background()

	result, err := h.engine.Run(ctx, asOf, func(res pricing.ProductResult) {
		h.jobMu.Lock()
		job.Processed++
		processed := job.Processed
		h.jobMu.Unlock()
		h.broadcast(gin.H{
			"type":      "progress",
			"groupid":   res.GroupID,
			"processed": processed,
		})
	})

	h.jobMu.Lock()
	defer h.jobMu.Unlock()
	now := time.Now()
	job.Running = false
	job.Done = &now
	if err != nil {
		job.Error = err.Error()
		h.broadcast(gin.H{"type": "error", "error": err.Error()})
		return
	}
	job.Total = result.Products

	if err := h.store.SaveRecommendations(ctx, asOf, result.Recommendations); err != nil {
		job.Error = err.Error()
		log.Printf("failed to save run output: %v", err)
		h.broadcast(gin.H{"type": "error", "error": err.Error()})
		return
	}
	h.broadcast(gin.H{
		"type":            "done",
		"products":        result.Products,
		"recommendations": len(result.Recommendations),
		"skipped":         result.Skipped,
		"errors":          result.Errors,
	})
}

// RunStatus reports the current or most recent run job.
func (h *APIHandler) RunStatus(c *gin.Context) {
	h.jobMu.Lock()
	defer h.jobMu.Unlock()
	if h.job == nil {
		c.JSON(http.StatusOK, gin.H{"running": false})
		return
	}
	c.JSON(http.StatusOK, h.job)
}

// RunProgressWS upgrades to a websocket and streams run progress events.
func (h *APIHandler) RunProgressWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	h.wsMu.Lock()
	h.wsClients[conn] = true
	h.wsMu.Unlock()

	// Reader loop exists only to detect disconnects.
	go func() {
		defer func() {
			h.wsMu.Lock()
			delete(h.wsClients, conn)
			h.wsMu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *APIHandler) broadcast(msg gin.H) {
	h.wsMu.Lock()
	defer h.wsMu.Unlock()
	for conn := range h.wsClients {
		if err := conn.WriteJSON(msg); err != nil {
			delete(h.wsClients, conn)
			conn.Close()
		}
	}
}
