package routes

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/yourorg/leaflens/internal/classifier"
	"github.com/yourorg/leaflens/internal/debug"
	"github.com/yourorg/leaflens/internal/diagnosis"
	"github.com/yourorg/leaflens/internal/genai"
	"github.com/yourorg/leaflens/internal/handlers"
	"github.com/yourorg/leaflens/internal/history"
	"github.com/yourorg/leaflens/internal/middleware"
)

// Register conecta todos los endpoints. Los clientes externos se construyen
// una vez en main y se inyectan acá.
func Register(app *fiber.App, db *sql.DB, engine *classifier.Client, advisor *genai.Client) {
	// Initialize services & handlers
	store := history.New(db)
	diagnosisSvc := diagnosis.NewService(engine, advisor, store)
	diagnoseHandler := handlers.NewDiagnoseHandler(diagnosisSvc)
	dashboardHandler := handlers.NewDashboardHandler(store)
	healthHandler := handlers.NewHealthHandler(engine)

	requireAuth := middleware.RequireAuth(handlers.JWTSecret)

	// ============================================================================
	// LIVENESS (para que Render no muestre "Cannot GET /")
	// ============================================================================
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("LeafLens backend is LIVE 🚀")
	})

	// ============================================================================
	// API PÚBLICA
	// ============================================================================
	api := app.Group("/api")

	// Health check (sin rate limiting)
	api.Get("/health", healthHandler.Health)

	api.Get("/test", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "LeafLens API is reachable!",
			"status":  "Healthy",
		})
	})

	// ============================================================================
	// AUTENTICACIÓN (con rate limiting estricto)
	// ============================================================================
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.StrictRateLimiter()) // 10 req/min

	authGroup.Post("/register", handlers.Register)
	// POST /api/auth/register
	// Body: {name, email, password} → 201 {id, name, token} | 409 si el email existe

	authGroup.Post("/login", handlers.Login)
	// POST /api/auth/login
	// Body: {email, password} → 200 {id, name, token} | 401 credenciales inválidas

	// ============================================================================
	// DIAGNÓSTICO (protegido + rate limiting: la inferencia es cara)
	// ============================================================================
	api.Post("/diagnose", requireAuth, middleware.DiagnosisRateLimiter(), diagnoseHandler.Diagnose)
	// POST /api/diagnose
	// Multipart campo "image" → {success, id, disease, confidence, treatment, createdAt}
	// 400 sin imagen | 503 AI engine apagado | 500 error de generación

	// ============================================================================
	// DASHBOARD (protegido)
	// ============================================================================
	dashboard := api.Group("/dashboard")
	dashboard.Use(requireAuth)

	dashboard.Get("/summary", dashboardHandler.GetDashboardSummary)
	// GET /api/dashboard/summary
	// {success, data: {totalScans, healthy, needsAttention, categories, recentActivity}}

	dashboard.Get("/history", dashboardHandler.GetRecentActivity)
	// GET /api/dashboard/history - historial completo, más reciente primero

	dashboard.Get("/details/:id", dashboardHandler.GetDiagnosisDetails)
	// GET /api/dashboard/details/:id - un reporte puntual | 404 si no existe o es de otro usuario

	// ============================================================================
	// DEBUG DASHBOARD WEBSOCKET
	// ============================================================================
	app.Use("/ws/debug", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/debug", websocket.New(func(c *websocket.Conn) {
		debug.HandleWebSocketFiber(c)
	}))
}
