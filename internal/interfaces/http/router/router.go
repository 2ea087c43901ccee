package router

import (
	"net/http"

	"github.com/binovo/connector-prestashop/internal/infrastructure/logger"
	"github.com/binovo/connector-prestashop/internal/interfaces/http/dto"
	"github.com/binovo/connector-prestashop/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports database health
type Pinger interface {
	Ping() error
}

// New builds the gin engine of the operator API
func New(connectorHandler *handler.ConnectorHandler, db Pinger, log *zap.Logger) (*gin.Engine, error) {
	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(logger.Recovery(log), logger.GinMiddleware(log))

	engine.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if db != nil {
			if err := db.Ping(); err != nil {
				status, code = "database unavailable", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{"status": status})
	})

	v1 := engine.Group("/api/v1")
	v1.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	backends := v1.Group("/backends")
	backends.GET("", connectorHandler.ListBackends)
	backends.POST("", connectorHandler.CreateBackend)
	backends.GET("/:id", connectorHandler.GetBackend)
	backends.POST("/:id/imports", connectorHandler.EnqueueImport)
	backends.POST("/:id/batches", connectorHandler.ImportBatch)
	backends.POST("/:id/exports", connectorHandler.EnqueueExport)
	backends.GET("/:id/bindings/:entity/:external_id", connectorHandler.GetBinding)

	return engine, nil
}
