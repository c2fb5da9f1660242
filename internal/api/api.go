package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"coldstore/internal/models"
	"coldstore/internal/monitoring"
	"coldstore/internal/stream"

	"github.com/gin-gonic/gin"
)

// maxBodyBytes bounds a POSTed reading batch
const maxBodyBytes = 1 << 20

// Engine is the dashboard service as seen by the HTTP layer
type Engine interface {
	Run(ctx context.Context, source string, readings []models.RawReading) *models.Report
	Simulate(ctx context.Context) *models.Report
	Registry() *models.Registry
}

// StorageAPI represents the HTTP API of the cold storage engine
type StorageAPI struct {
	Router  *gin.Engine
	Engine  Engine
	Hub     *stream.Hub
	Monitor *monitoring.Monitor
}

// NewStorageAPI creates a new API instance. Hub and monitor are optional.
func NewStorageAPI(engine Engine, hub *stream.Hub, monitor *monitoring.Monitor) *StorageAPI {
	router := gin.Default()

	api := &StorageAPI{
		Router:  router,
		Engine:  engine,
		Hub:     hub,
		Monitor: monitor,
	}

	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (s *StorageAPI) setupRoutes() {
	s.Router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Sustainable AI Cold Storage decision engine is running.")
	})

	// Health check
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if s.Hub != nil {
		s.Router.GET("/ws", s.Hub.ServeWS)
	}

	v1 := s.Router.Group("/api/v1")
	{
		v1.GET("/analyze", s.SimulateDashboard)
		v1.POST("/analyze", s.AnalyzeReadings)
		v1.GET("/profiles", s.GetProfiles)
		v1.GET("/metrics", s.GetMetrics)
		v1.GET("/metrics/:name", s.GetMetric)
	}
}

// SimulateDashboard runs one cycle over simulated readings
func (s *StorageAPI) SimulateDashboard(c *gin.Context) {
	report := s.Engine.Simulate(c.Request.Context())
	writeReport(c, report, http.StatusInternalServerError)
}

// AnalyzeReadings runs one cycle over a posted reading or batch
func (s *StorageAPI) AnalyzeReadings(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	readings, err := models.ParseReadings(body)
	if err != nil {
		if errors.Is(err, models.ErrNoReadings) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no sensor data provided"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := s.Engine.Run(c.Request.Context(), models.SourceSensor, readings)
	writeReport(c, report, http.StatusBadRequest)
}

// writeReport encodes the report before committing a status, so an
// unencodable report never reaches the client as an empty 200
func writeReport(c *gin.Context, report *models.Report, failStatus int) {
	data, err := json.Marshal(report)
	if err != nil {
		c.JSON(failStatus, gin.H{"error": fmt.Sprintf("failed to encode report: %v", err)})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// GetProfiles lists the registered item profiles and gas thresholds
func (s *StorageAPI) GetProfiles(c *gin.Context) {
	reg := s.Engine.Registry()
	c.JSON(http.StatusOK, gin.H{
		"default_label":  reg.DefaultLabel(),
		"profiles":       reg.Profiles(),
		"gas_thresholds": reg.Thresholds(),
	})
}

// GetMetrics returns the monitor snapshot
func (s *StorageAPI) GetMetrics(c *gin.Context) {
	if s.Monitor == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, s.Monitor.GetMetrics())
}

// GetMetric returns a single monitor value
func (s *StorageAPI) GetMetric(c *gin.Context) {
	name := c.Param("name")
	if s.Monitor == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Metric not found"})
		return
	}
	value, ok := s.Monitor.GetMetric(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Metric not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "value": value})
}
