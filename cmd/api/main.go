package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/projectdesk/api/internal/application/auth"
	"github.com/projectdesk/api/internal/application/ingest"
	"github.com/projectdesk/api/internal/application/scope"
	"github.com/projectdesk/api/internal/application/session"
	"github.com/projectdesk/api/internal/infrastructure/drive"
	"github.com/projectdesk/api/internal/infrastructure/postgres"
	httpRouter "github.com/projectdesk/api/internal/interfaces/http"
	"github.com/projectdesk/api/pkg/config"
	"github.com/projectdesk/api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	records := postgres.NewRecordStore(pool)

	objects, err := drive.New(drive.Config{
		FolderID:      cfg.Drive.FolderID,
		BaseFolderURL: cfg.Drive.BaseFolderURL,
		ClientEmail:   cfg.Drive.ClientEmail,
		PrivateKeyPEM: []byte(cfg.Drive.PrivateKeyPEM),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar object store")
	}

	resolver := scope.NewResolver(records, log)
	sessions := session.NewManager(resolver, records, log)
	pipeline := ingest.New(resolver, objects, records, log)

	authUC := auth.NewUseCase(records, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    12 * 1024 * 1024, // margen sobre el límite de subida
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ProjectDesk API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		Sessions:  sessions,
		Pipeline:  pipeline,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
