// Command wallgeom-server is a thin HTTP adapter over the library API
// table (create_wall, switch_mode, plus wall lookup and deletion), grounded on
// routes.go's gin-based API style (gin.Default(), per-route handlers
// returning gin.H JSON, c.ShouldBindJSON request decoding). CORS is
// enabled for local UI dev servers; uuid generates request-scoped
// correlation ids, matching the header-based request tracing convention
// seen elsewhere in the gateway. WALLGEOM_SERVER_CONFIG points at a YAML
// config file for the offset tolerance/join defaults the create and
// switch-mode handlers fall back on; built-in defaults apply otherwise.
package main

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/wallcore/geom/cmd/wallgeom-server/docs"
	"github.com/wallcore/geom/config"
	"github.com/wallcore/geom/internal/logger"
	"github.com/wallcore/geom/wallstore"
)

// @title wallgeom-server API
// @version 1.0
// @description HTTP adapter over the wall-geometry core library API.
func main() {
	cfg := config.Default()
	if path := os.Getenv("WALLGEOM_SERVER_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			logger.Error("wallgeom-server: %v", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	store := wallstore.New()

	r := gin.Default()
	r.Use(cors.Default())
	r.Use(requestIDMiddleware)

	r.GET("/health", handleHealth)
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		walls := v1.Group("/walls")
		walls.POST("", newCreateWallHandler(store, cfg))
		walls.GET("/:id", newGetWallHandler(store))
		walls.POST("/:id/switch-mode", newSwitchModeHandler(store, cfg))
		walls.DELETE("/:id", newDeleteWallHandler(store))
	}

	addr := os.Getenv("WALLGEOM_SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logger.Info("wallgeom-server: listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("wallgeom-server: %v", err)
		os.Exit(1)
	}
}

func requestIDMiddleware(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.New().String()
	}
	c.Header("X-Request-ID", id)
	c.Set("request_id", id)
	c.Next()
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
