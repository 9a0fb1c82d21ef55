package app

import (
	"time"

	"github.com/at14318-design/timetable-backend/internal/auth"
	"github.com/at14318-design/timetable-backend/internal/cache"
	"github.com/at14318-design/timetable-backend/internal/config"
	"github.com/at14318-design/timetable-backend/internal/handlers"
	"github.com/at14318-design/timetable-backend/internal/repo"
	"github.com/at14318-design/timetable-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	sessionStore := auth.NewStore(rdb, 24*time.Hour)
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(sessionStore, userSvc)
	registerAuthRoutes(api, authHandler)

	protected := api.Group("", auth.RequireSession(sessionStore))

	timetableRepo := repo.NewPGTimetableRepo(db)
	timetableCache := cache.NewTimetableCache(rdb, cfg.Redis.DefaultTTL.Duration())
	timetableSvc := service.NewTimetableService(timetableRepo, timetableCache)
	timetableHandler := handlers.NewTimetableHandler(timetableSvc)
	registerTimetableRoutes(protected, timetableHandler)

	groupRepo := repo.NewPGGroupRepo(db)
	groupScheduleRepo := repo.NewPGGroupScheduleRepo(db)
	groupSvc := service.NewGroupService(groupRepo, groupScheduleRepo, userRepo)
	groupHandler := handlers.NewGroupHandler(groupSvc)
	groupScheduleHandler := handlers.NewGroupScheduleHandler(groupSvc)
	registerGroupRoutes(protected, groupHandler, groupScheduleHandler)

	assistantSvc := service.NewAssistantService(cfg.Assistant.GeminiAPIKey, timetableRepo, nil)
	assistantHandler := handlers.NewAssistantHandler(assistantSvc)
	assistant := api.Group("", auth.OptionalSession(sessionStore))
	registerAssistantRoutes(assistant, assistantHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Timetable API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health": "/health",
			"api":    "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", h.Logout)
}

func registerTimetableRoutes(api *gin.RouterGroup, h *handlers.TimetableHandler) {
	api.POST("/timetable", h.Create)
	api.GET("/timetable", h.List)
	api.GET("/timetable/:id", h.GetByID)
	api.PATCH("/timetable/:id", h.Update)
	api.DELETE("/timetable/:id", h.Delete)
}

func registerGroupRoutes(api *gin.RouterGroup, g *handlers.GroupHandler, s *handlers.GroupScheduleHandler) {
	api.POST("/groups", g.Create)
	api.GET("/groups", g.List)
	api.GET("/groups/:id", g.GetByID)
	api.PATCH("/groups/:id", g.Update)
	api.DELETE("/groups/:id", g.Delete)
	api.POST("/groups/:id/members", g.AddMember)
	api.DELETE("/groups/:id/members/:memberID", g.RemoveMember)
	api.GET("/groups/:id/schedules", s.ListByGroup)

	api.POST("/group-schedules", s.Create)
	api.GET("/group-schedules/:id", s.GetByID)
	api.PATCH("/group-schedules/:id", s.Update)
	api.DELETE("/group-schedules/:id", s.Delete)
}

func registerAssistantRoutes(api *gin.RouterGroup, h *handlers.AssistantHandler) {
	api.GET("/assistant/suggestions", h.Suggestions)
	api.POST("/assistant/ask", h.Ask)
}
