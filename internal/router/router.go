package router

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/roadmapdb/internal/config"
	"github.com/localnerve/roadmapdb/internal/handlers"
	"github.com/localnerve/roadmapdb/internal/logger"
	"github.com/localnerve/roadmapdb/internal/middleware"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/types"
	"github.com/localnerve/roadmapdb/internal/utils"
	"gorm.io/gorm"
)

// Options toggles the outer surfaces that tests do not need
type Options struct {
	AccessLog bool
	Metrics   bool
	Swagger   bool
}

// DefaultOptions enables everything
func DefaultOptions() Options {
	return Options{AccessLog: true, Metrics: true, Swagger: true}
}

// collectors register with the default prometheus registry, which allows one set per process
var (
	metricsOnce sync.Once
	metrics     *fiberprometheus.FiberPrometheus
)

// New builds the fiber app with every route mounted under cfg.APIPrefix
func New(cfg *config.Config, db *gorm.DB, log *logger.Logger, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler(cfg, log),
		DisableStartupMessage: cfg.AppEnv == "production",
		AppName:               "roadmapdb",
	})

	// Global middleware
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.AppEnv != "production"}))
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestContext(log))
	if opts.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(cfg.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))

	// Prometheus metrics
	if opts.Metrics {
		metricsOnce.Do(func() {
			metrics = fiberprometheus.New("roadmapdb")
		})
		metrics.RegisterAt(app, "/metrics")
		app.Use(metrics.Middleware)
	}

	// Swagger documentation
	if opts.Swagger {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	health := &handlers.HealthHandler{Config: cfg, DB: db, Log: log}
	app.Get("/health", health.Health)

	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	graphService := services.NewGraphService(db, cfg.GraphSyncMode, log)
	debugService := services.NewGraphDebugService(db, log)

	requireAuth := middleware.RequireAuth(authService)
	optionalAuth := middleware.OptionalAuth(authService)
	requireAdmin := middleware.RequireAdmin()

	api := app.Group(cfg.APIPrefix)

	// Auth routes
	authHandler := &handlers.AuthHandler{Auth: authService}
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", requireAuth, authHandler.Me)

	// Admin-only account routes
	userHandler := handlers.NewUserHandler(db, authService)
	users := api.Group("/users", requireAuth, requireAdmin)
	users.Get("/", userHandler.GetUsers)
	users.Get("/:id", userHandler.GetUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)

	categoryHandler := handlers.NewCategoryHandler(db)
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.GetCategories)
	categories.Get("/:id/roadmaps", categoryHandler.GetCategoryRoadmaps)
	categories.Get("/:id/courses", categoryHandler.GetCategoryCourses)
	categories.Get("/:id", categoryHandler.GetCategory)
	categories.Post("/", categoryHandler.CreateCategory)
	categories.Put("/:id", categoryHandler.UpdateCategory)
	categories.Delete("/:id", categoryHandler.DeleteCategory)

	skillHandler := handlers.NewSkillHandler(db)
	skills := api.Group("/skills")
	skills.Get("/", skillHandler.GetSkills)
	skills.Get("/:id/roadmaps", skillHandler.GetSkillRoadmaps)
	skills.Get("/:id/courses", skillHandler.GetSkillCourses)
	skills.Get("/:id", skillHandler.GetSkill)
	skills.Post("/", skillHandler.CreateSkill)
	skills.Put("/:id", skillHandler.UpdateSkill)
	skills.Delete("/:id", skillHandler.DeleteSkill)

	tagHandler := handlers.NewTagHandler(db)
	tags := api.Group("/tags")
	tags.Get("/", tagHandler.GetTags)
	tags.Get("/:id/roadmaps", tagHandler.GetTagRoadmaps)
	tags.Get("/:id", tagHandler.GetTag)
	tags.Post("/", tagHandler.CreateTag)
	tags.Put("/:id", tagHandler.UpdateTag)
	tags.Delete("/:id", tagHandler.DeleteTag)

	courseHandler := handlers.NewCourseHandler(db)
	courses := api.Group("/courses")
	courses.Get("/", courseHandler.GetCourses)
	courses.Get("/:id/documents", courseHandler.GetCourseDocuments)
	courses.Get("/:id", courseHandler.GetCourse)
	courses.Post("/", courseHandler.CreateCourse)
	courses.Put("/:id", courseHandler.UpdateCourse)
	courses.Delete("/:id", courseHandler.DeleteCourse)

	documentHandler := handlers.NewDocumentHandler(db)
	documents := api.Group("/documents")
	documents.Get("/", documentHandler.GetDocuments)
	documents.Get("/:id", documentHandler.GetDocument)
	documents.Post("/", documentHandler.CreateDocument)
	documents.Put("/:id", documentHandler.UpdateDocument)
	documents.Delete("/:id", documentHandler.DeleteDocument)

	favoriteHandler := handlers.NewFavoriteHandler(db)
	favorites := api.Group("/favorites")
	favorites.Get("/", favoriteHandler.GetFavorites)
	favorites.Get("/user/:userId", favoriteHandler.GetUserFavorites)
	favorites.Get("/check/:userId/:roadmapId", favoriteHandler.CheckFavorite)
	favorites.Get("/:id", favoriteHandler.GetFavorite)
	favorites.Post("/", favoriteHandler.CreateFavorite)
	favorites.Put("/:id", favoriteHandler.UpdateFavorite)
	favorites.Delete("/:id", favoriteHandler.DeleteFavorite)

	notificationHandler := handlers.NewNotificationHandler(db)
	notifications := api.Group("/notifications")
	notifications.Get("/", notificationHandler.GetNotifications)
	notifications.Get("/user/:userId", notificationHandler.GetUserNotifications)
	notifications.Put("/user/:userId/read-all", notificationHandler.MarkAllRead)
	notifications.Get("/:id", notificationHandler.GetNotification)
	notifications.Post("/", notificationHandler.CreateNotification)
	notifications.Put("/:id/read", notificationHandler.MarkRead)
	notifications.Put("/:id", notificationHandler.UpdateNotification)
	notifications.Delete("/:id", notificationHandler.DeleteNotification)

	progressHandler := handlers.NewProgressHandler(db)
	progress := api.Group("/user-progress")
	progress.Get("/", progressHandler.GetAllProgress)
	progress.Get("/user/:userId", progressHandler.GetUserProgress)
	progress.Post("/complete-and-favorite", optionalAuth, progressHandler.CompleteAndFavorite)
	progress.Get("/:id", progressHandler.GetProgress)
	progress.Post("/", progressHandler.CreateProgress)
	progress.Put("/:id", progressHandler.UpdateProgress)
	progress.Delete("/:id", progressHandler.DeleteProgress)

	roadmapHandler := handlers.NewRoadmapHandler(db, graphService)
	roadmaps := api.Group("/roadmaps")
	roadmaps.Get("/", roadmapHandler.GetRoadmaps)
	roadmaps.Get("/user/:userId", roadmapHandler.GetUserRoadmaps)
	roadmaps.Get("/public/:publicId", roadmapHandler.GetRoadmapByPublicID)
	roadmaps.Get("/:id", roadmapHandler.GetRoadmap)
	roadmaps.Post("/", optionalAuth, roadmapHandler.CreateRoadmap)
	roadmaps.Put("/:id/nodes-edges", roadmapHandler.SaveNodesEdges)
	roadmaps.Put("/:id", roadmapHandler.UpdateRoadmap)
	roadmaps.Delete("/:id", roadmapHandler.DeleteRoadmap)
	roadmaps.Post("/:id/tags", roadmapHandler.AddTag)
	roadmaps.Delete("/:id/tags/:tagId", roadmapHandler.RemoveTag)

	// Snapshot diagnostics (bearer auth)
	debugHandler := &handlers.DebugHandler{Debug: debugService}
	debug := api.Group("/debug", requireAuth)
	debug.Get("/roadmaps/:id/inspect", debugHandler.InspectRoadmap)
	debug.Post("/roadmaps/:id/repair", debugHandler.RepairRoadmap)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	return app
}

// ErrorHandler renders every error returned by a handler or middleware.
// Unrecognized errors are 500s whose message is passed through unless
// HIDE_INTERNAL_ERRORS is set; the raw error is always logged.
func ErrorHandler(cfg *config.Config, log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var custom *types.CustomError
		if errors.As(err, &custom) {
			return utils.CodedErrorResponse(c, custom.Message, custom.Status, custom.Type, custom.Code)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return utils.ErrorResponse(c, fe.Message, fe.Code, "http")
		}

		middleware.RequestLoggerOr(c, log).Error("Unhandled error", "error", err)

		message := err.Error()
		if cfg.HideInternalErrors {
			message = "Internal server error"
		}
		return utils.CodedErrorResponse(c, message, fiber.StatusInternalServerError, "internal", types.CodeInternal)
	}
}

func corsOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}

// ShutdownTimeout bounds graceful shutdown
const ShutdownTimeout = 10 * time.Second
