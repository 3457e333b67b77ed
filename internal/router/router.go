package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/openwaves/openwaves-backend/internal/config"
	"github.com/openwaves/openwaves-backend/internal/handler"
	"github.com/openwaves/openwaves-backend/internal/middleware"
	"github.com/openwaves/openwaves-backend/internal/response"
	"github.com/openwaves/openwaves-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Session   *handler.SessionHandler
	Pool      *handler.PoolHandler
	Candidate *handler.CandidateHandler
	Results   *handler.ResultsHandler
	WS        *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve diagram images statically with aggressive caching (1 year);
	// files are content-addressed by UUID so they never change in place.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/signup", handlers.Auth.Signup)
		auth.POST("/login", handlers.Auth.Login)

		auth.GET("/me",
			middleware.RequireAnyJWT(authService),
			middleware.CheckSingleDeviceSession(authService),
			handlers.Auth.Me,
		)
		auth.PUT("/profile",
			middleware.RequireAnyJWT(authService),
			middleware.CheckSingleDeviceSession(authService),
			handlers.Auth.UpdateProfile,
		)
		auth.POST("/logout", middleware.RequireAnyJWT(authService), handlers.Auth.Logout)
		auth.POST("/password",
			middleware.RequireAnyJWT(authService),
			middleware.CheckSingleDeviceSession(authService),
			handlers.Auth.ChangePassword,
		)
	}

	// ─── 2. Candidate Group (JWT + Single Device) ──────────────────────
	hcAPI := router.Group("/api/v1/hc")
	hcAPI.Use(
		middleware.RequireCandidateJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		hcAPI.GET("/sessions", handlers.Candidate.ListSessions)
		hcAPI.POST("/sessions/:id/register", handlers.Candidate.Register)
		hcAPI.POST("/sessions/:id/cancel", handlers.Candidate.Cancel)

		hcAPI.POST("/exams", handlers.Candidate.LaunchExam)
		hcAPI.GET("/exams/:id", handlers.Candidate.GetExam)
		hcAPI.POST("/exams/:id/answer", handlers.Candidate.Answer)
		hcAPI.POST("/exams/:id/goto/:index", handlers.Candidate.Goto)
		hcAPI.GET("/exams/:id/review", handlers.Candidate.Review)
		hcAPI.POST("/exams/:id/finish", handlers.Candidate.Finish)
		hcAPI.GET("/exams/:id/result", handlers.Candidate.Result)
		hcAPI.GET("/exams/:id/answers", handlers.Candidate.Answers)
	}

	// ─── 3. Examiner Group (JWT) ───────────────────────────────────────
	veAPI := router.Group("/api/v1/ve")
	veAPI.Use(middleware.RequireExaminerJWT(authService))
	{
		veAPI.POST("/sessions", handlers.Session.Create)
		veAPI.GET("/sessions", handlers.Session.List)
		veAPI.POST("/sessions/purge", handlers.Session.Purge)
		veAPI.GET("/sessions/:id", handlers.Session.Get)
		veAPI.POST("/sessions/:id/open", handlers.Session.Open)
		veAPI.POST("/sessions/:id/close", handlers.Session.Close)
		veAPI.DELETE("/sessions/:id", handlers.Session.Delete)
		veAPI.GET("/sessions/:id/results", handlers.Results.SessionResults)

		veAPI.POST("/pools", handlers.Pool.Create)
		veAPI.GET("/pools", handlers.Pool.List)
		veAPI.POST("/pools/:id/questions", handlers.Pool.ImportCSV)
		veAPI.DELETE("/pools/:id", handlers.Pool.Delete)
		veAPI.GET("/pools/:id/analytics", handlers.Results.PoolAnalytics)

		veAPI.POST("/pools/:id/diagrams", handlers.Pool.UploadDiagram)
		veAPI.GET("/pools/:id/diagrams", handlers.Pool.ListDiagrams)
		veAPI.DELETE("/diagrams/:id", handlers.Pool.DeleteDiagram)

		veAPI.GET("/exams/:id/answers", handlers.Results.ExamAnswers)
	}

	// ─── 4. WebSocket Group (Examiner WS Auth) ─────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireExaminerWSAuth(authService))
	{
		ws.GET("/ve/sessions/:id/monitor", handlers.WS.MonitorSession)
	}

	return router
}
