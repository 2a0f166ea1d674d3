package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "whatsflow/internal/common/api"
	"whatsflow/internal/config"
	"whatsflow/internal/database"
	"whatsflow/internal/extraction"
	"whatsflow/internal/features/bill"
	"whatsflow/internal/features/calendar"
	cron_feature "whatsflow/internal/features/cron"
	"whatsflow/internal/features/engine"
	"whatsflow/internal/features/execution"
	"whatsflow/internal/features/instance"
	"whatsflow/internal/features/link"
	"whatsflow/internal/features/rule"
	"whatsflow/internal/features/task"
	"whatsflow/internal/features/webhook"
	"whatsflow/internal/logger"
	"whatsflow/internal/middleware"
	"whatsflow/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, instanceRepo instance.InstanceRepository, ledgerRepo execution.LedgerRepository, linkRepo link.LinkRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := instanceRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure instance indexes: %v", err)
				}
				if err := ledgerRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure execution indexes: %v", err)
				}
				if err := linkRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure link indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repositories
			instance.NewInstanceRepository,
			rule.NewRuleRepository,
			task.NewTaskRepository,
			bill.NewBillRepository,
			calendar.NewCalendarRepository,
			link.NewLinkRepository,
			execution.NewLedgerRepository,

			// Initialize Services
			instance.NewInstanceService,
			rule.NewRuleService,
			task.NewTaskService,
			bill.NewBillService,
			calendar.NewMeetingLinker,
			calendar.NewCalendarService,
			cron_feature.NewCronService,

			// Engine
			extraction.NewPipeline,
			engine.NewTriggerMatcher,
			func(directory instance.InstanceService, ledger execution.LedgerRepository, zl *zap.Logger) *engine.FilterEvaluator {
				return engine.NewFilterEvaluator(directory, ledger, zl)
			},
			func(
				ledger execution.LedgerRepository,
				rules rule.RuleService,
				tasks task.TaskService,
				bills bill.BillService,
				cal calendar.CalendarService,
				links link.LinkRepository,
				zl *zap.Logger,
				cfg *config.Config,
			) *engine.ActionExecutor {
				return engine.NewActionExecutor(ledger, rules, tasks, bills, cal, links, zl, cfg.ConfidenceThreshold)
			},
			engine.NewEngineService,

			// Webhook ingest
			func(eng engine.EngineService, zl *zap.Logger, cfg *config.Config) webhook.WebhookService {
				return webhook.NewWebhookService(eng, zl, cfg.WebhookSecret)
			},

			// Initialize Controllers
			instance.NewInstanceController,
			rule.NewRuleController,
			task.NewTaskController,
			bill.NewBillController,
			calendar.NewCalendarController,
			link.NewLinkController,
			execution.NewExecutionController,
			webhook.NewWebhookController,

			// Initialize API Routes
			AsRoute(instance.NewInstanceApi),
			AsRoute(rule.NewRuleApi),
			AsRoute(task.NewTaskApi),
			AsRoute(bill.NewBillApi),
			AsRoute(calendar.NewCalendarApi),
			AsRoute(link.NewLinkApi),
			AsRoute(execution.NewExecutionApi),
			AsRoute(webhook.NewWebhookApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, cronService cron_feature.CronService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return cronService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return cronService.StopScheduler()
					},
				})
			},
			InitializeIndexes,
		),
	)

	app.Run()
}
