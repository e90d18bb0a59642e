package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/limaJavier/classscheduler/internal/api/handler"
	"github.com/limaJavier/classscheduler/internal/api/middleware"
)

// Setup builds the gin engine with every route mounted
func Setup(h *handler.Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Class Scheduler is up!"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/class-scheduler", h.Scheduler.Schedule)
		v1.POST("/class-scheduler-optimal", h.Scheduler.ScheduleOptimal)
		v1.POST("/class-scheduler/validate", h.Scheduler.Validate)
	}

	datasets := r.Group("/api/datasets")
	{
		datasets.GET("", h.Dataset.List)
		datasets.POST("", h.Dataset.Create)
		datasets.GET("/:id", h.Dataset.Get)
		datasets.PUT("/:id", h.Dataset.Update)
		datasets.DELETE("/:id", h.Dataset.Delete)
		datasets.POST("/:id/schedule", h.Scheduler.ScheduleDataset)
	}

	return r
}
