package main

import (
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/yourorg/leaflens/internal/classifier"
	appdb "github.com/yourorg/leaflens/internal/db"
	"github.com/yourorg/leaflens/internal/genai"
	"github.com/yourorg/leaflens/internal/handlers"
	"github.com/yourorg/leaflens/internal/middleware"
	"github.com/yourorg/leaflens/internal/routes"
)

func main() {
	_ = godotenv.Load()

	app := fiber.New(fiber.Config{
		BodyLimit: 12 * 1024 * 1024, // margen sobre el límite de upload de 10MB
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*", // abierto por ahora; restringir a la URL de Vercel después
		AllowMethods: "GET,POST,PUT,DELETE",
	}))
	app.Use(middleware.MetricsMiddleware())

	// ============================================================================
	// CLIENTES EXTERNOS (construidos una vez, inyectados al pipeline)
	// ============================================================================
	engine := classifier.NewClient()
	advisor := genai.NewClient()

	log.Println("🔗 Verificando AI Engine...")
	if err := engine.HealthCheck(); err != nil {
		log.Printf("⚠️  AI Engine no responde aún: %v", err)
		log.Println("   El servidor continuará; el engine puede estar despertando")
	} else {
		log.Println("✅ AI Engine disponible")
	}

	// ============================================================================
	// DB CONNECTION
	// ============================================================================
	var dbReady atomic.Bool

	go func() {
		for {
			db, err := appdb.Connect()
			if err != nil {
				log.Printf("db connect error: %v (retrying in 5s)", err)
				time.Sleep(5 * time.Second)
				continue
			}
			if err := appdb.EnsureSchema(db); err != nil {
				log.Printf("ensure schema error: %v (retrying in 5s)", err)
				time.Sleep(5 * time.Second)
				continue
			}
			handlers.Setup(db)
			routes.Register(app, db, engine, advisor)
			dbReady.Store(true)
			log.Printf("✅ Database ready and routes registered")
			return
		}
	}()

	// Wait briefly for DB to be ready
	for i := 0; i < 10 && !dbReady.Load(); i++ {
		time.Sleep(500 * time.Millisecond)
	}

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\n🛑 Señal de terminación recibida, cerrando servidor...")

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️  Error cerrando servidor: %v", err)
		}

		log.Println("✅ Servidor cerrado correctamente")
		os.Exit(0)
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 LeafLens backend escuchando en :%s", port)
	log.Println("📍 Endpoints disponibles:")
	log.Println("   POST /api/auth/register        - Crear cuenta")
	log.Println("   POST /api/auth/login           - Iniciar sesión")
	log.Println("   POST /api/diagnose             - Diagnosticar hoja (multipart image)")
	log.Println("   GET  /api/dashboard/summary    - Resumen del historial")
	log.Println("   GET  /api/dashboard/history    - Historial completo")
	log.Println("   GET  /api/dashboard/details/:id - Detalle de un reporte")
	log.Println("   GET  /api/health               - Health check")
	log.Println("💡 Presiona Ctrl+C para detener")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
