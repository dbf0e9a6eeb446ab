package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"sports-event-platform/handlers"
	"sports-event-platform/middleware"
	"sports-event-platform/models"
	"sports-event-platform/services"
	"sports-event-platform/utils"
	"sports-event-platform/workers"
)

func main() {
	cfg, cfgErr := utils.LoadConfig()
	log, err := cfg.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if cfgErr != nil {
		log.Fatal("invalid configuration", zap.Error(cfgErr))
	}
	policy, err := services.ParseRoleReusePolicy(cfg.RoleReusePolicy)
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var uploader services.ReportUploader
	if cfg.R2.Enabled() {
		r2, err := utils.NewR2Uploader(ctx, cfg.R2)
		if err != nil {
			log.Fatal("failed to initialize R2 client", zap.Error(err))
		}
		uploader = r2
	} else {
		log.Info("R2 not configured, budget export disabled")
	}

	identity := services.NewIdentityService(db, policy, cfg.BcryptCost)
	cascade := services.NewCascadeService(db)
	associationService := services.NewAssociationService(db)
	eventService := services.NewEventService(db, identity)
	gameService := services.NewGameService(db)
	categoryService := services.NewCategoryService(db, identity)
	teamService := services.NewTeamService(db)
	matchService := services.NewMatchService(db)
	fixtureService := services.NewFixtureService(db)
	leaderboardService := services.NewLeaderboardService(db)
	budgetService := services.NewBudgetService(db, uploader)
	integrityService := services.NewIntegrityService(db)
	userService := services.NewUserService(db)

	if cfg.OrphanAuditInterval > 0 {
		audit := workers.NewOrphanAuditWorker(integrityService, cfg.OrphanAuditInterval)
		if err := audit.Start(ctx); err != nil {
			log.Fatal("failed to start orphan audit", zap.Error(err))
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "sports-event-platform",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		MaxAge:       86400,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("College Sports Event Platform API")
	})

	api := app.Group("/api")
	auth := middleware.Authenticate(cfg.JWTSecret)

	handlers.SetupPublicRoutes(api, eventService, leaderboardService)
	handlers.SetupAssociationRoutes(api, auth, associationService, cascade)
	handlers.SetupEventRoutes(api, auth, eventService, cascade)
	handlers.SetupGameRoutes(api, auth, gameService, cascade)
	handlers.SetupCategoryRoutes(api, auth, categoryService, fixtureService, cascade)
	handlers.SetupTeamRoutes(api, auth, teamService)
	handlers.SetupMatchRoutes(api, auth, matchService)
	handlers.SetupDashboardRoutes(api, auth, budgetService, integrityService)
	handlers.SetupUserRoutes(api, auth, userService)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server error", zap.Error(err))
			stop()
		}
	}()
	log.Info("server running", zap.String("port", cfg.Port), zap.Strings("allowed_origins", cfg.AllowedOrigins))

	<-ctx.Done()
	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
