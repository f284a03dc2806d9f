package bootstrap

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/ShoaibShoukat2/AIAgents/internal/api/http"
	"github.com/ShoaibShoukat2/AIAgents/internal/api/http/middleware"
	projhttp "github.com/ShoaibShoukat2/AIAgents/internal/projects/http"
	"github.com/ShoaibShoukat2/AIAgents/internal/projects/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *sql.DB
	Service     *service.ProjectService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())

	// The dashboard is served from a different origin; allow all like the
	// rest of the deployment expects.
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "Multi-Agent Design System API",
			"version":   dep.Version,
			"status":    "active",
			"timestamp": time.Now().UTC(),
		})
	})

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")
	projhttp.New(dep.Service).Register(api)

	return r
}
