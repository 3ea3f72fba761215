package http

import (
	"github.com/gin-gonic/gin"

	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

type Handlers struct {
	Profile *ProfileHandler
	Search  *SearchHandler
	Health  *HealthHandler
}

// NewRouter mounts the API under /api and again at the root for clients
// that call it without the prefix.
func NewRouter(h Handlers, log logger.Logger, exposeErrorDetails bool) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), ErrorMiddleware(log, exposeErrorDetails))

	router.GET("/health", h.Health.Health)
	router.GET("/", h.Health.Index)

	registerAPIRoutes(router.Group("/api"), h)
	registerAPIRoutes(router.Group(""), h)

	router.NoRoute(NotFound)
	return router
}

func registerAPIRoutes(g *gin.RouterGroup, h Handlers) {
	g.GET("/profile", h.Profile.GetProfile)
	g.POST("/profile", h.Profile.UpsertProfile)
	g.PUT("/profile", h.Profile.UpsertProfile)
	g.GET("/profile/revisions", h.Profile.ListRevisions)

	g.GET("/projects", h.Search.ProjectsBySkill)
	g.GET("/skills/top", h.Search.TopSkills)
	g.GET("/search", h.Search.Search)
}
