package router

import (
	"time"

	"hygpos/internal/config"
	"hygpos/internal/handler"
	"hygpos/internal/infra"
	"hygpos/internal/middleware"
	"hygpos/internal/model"
	"hygpos/internal/realtime"
	"hygpos/internal/repository"
	"hygpos/internal/service"
	"hygpos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Externals are the optional outbound channels built by the caller. Nil
// fields disable the channel.
type Externals struct {
	Mailer *infra.Mailer
	AMQP   *infra.AMQPPublisher
}

// App is the wired application: the Gin engine plus the background parts
// the caller starts next to the HTTP server.
type App struct {
	Engine  *gin.Engine
	Hub     *realtime.Hub
	Pool    *worker.Pool
	Archive service.ArchiveService
}

// New wires all dependencies and returns the configured application.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, ext Externals) *App {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	loc := cfg.Location()

	// ── Infrastructure ───────────────────────────────────────────────────────
	hub := realtime.NewHub(nil)
	menuCache := infra.NewMenuCache(rdb, cfg.CatalogCacheTTL)
	backup := infra.NewJSONBackup(cfg.ArchiveBackupPath)

	// Screens show when operator mail is failing fast.
	mailerCB := infra.NewCircuitBreaker(infra.SMTPBreakerConfig(func(st infra.BreakerStatus) {
		hub.Publish(realtime.EventRelayState, st)
	}))
	var channels infra.MultiNotifier
	if ext.Mailer != nil && ext.Mailer.Configured() && cfg.OperatorEmail != "" {
		channels = append(channels, infra.NewEmailNotifier(ext.Mailer, mailerCB, cfg.OperatorEmail))
	}
	if ext.AMQP != nil {
		channels = append(channels, ext.AMQP)
	}
	// Alerts go through the notifications queue; the dispatcher delivers
	// directly when Redis is down.
	dispatcher := worker.NewDispatcher(rdb, channels)

	// ── Repositories ─────────────────────────────────────────────────────────
	unitRepo := repository.NewUnitRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	productRepo := repository.NewProductRepository(db)
	toppingsRepo := repository.NewToppingsGroupRepository(db)
	costHistoryRepo := repository.NewCostHistoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	tableRepo := repository.NewTableRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	dailyCashRepo := repository.NewDailyCashRepository(db)
	archiveRepo := repository.NewArchiveRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	costSvc := service.NewCostService(ingredientRepo, productRepo, unitRepo, costHistoryRepo, hub, menuCache)
	catalogSvc := service.NewCatalogService(unitRepo, ingredientRepo, productRepo, toppingsRepo, costSvc, hub, menuCache)
	toppingsSvc := service.NewToppingsGroupService(model.GroupKindToppings, toppingsRepo, ingredientRepo, hub, menuCache)
	saucesSvc := service.NewToppingsGroupService(model.GroupKindSauce, toppingsRepo, ingredientRepo, hub, menuCache)
	customerSvc := service.NewCustomerService(customerRepo)
	tableSvc := service.NewTableService(tableRepo)
	cashSvc := service.NewDailyCashService(dailyCashRepo, loc)
	orderSvc := service.NewOrderService(orderRepo, tableRepo, service.NewOrderLineBuilder(productRepo), cashSvc, hub, dispatcher, loc)
	archiveSvc := service.NewArchiveService(orderRepo, archiveRepo, backup, dispatcher, service.ArchiveOptions{
		Retries:  cfg.ArchiveRetries,
		Delay:    cfg.ArchiveRetryDelay,
		Location: loc,
	})
	hub.SetCatalog(catalogSvc)

	// ── Workers ──────────────────────────────────────────────────────────────
	pool := worker.NewPool(rdb)
	pool.Register(worker.QueueTickets, worker.JobTicket, worker.NewTicketWorker(orderSvc, cfg.PDFStoragePath, loc).Process)
	pool.Register(worker.QueueNotifications, worker.JobNotification, worker.NewNotificationWorker(channels).Process)

	// ── Handlers ─────────────────────────────────────────────────────────────
	ordersH := handler.NewOrdersHandler(orderSvc, loc)
	cashH := handler.NewDailyCashHandler(cashSvc, loc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	toppingsH := handler.NewToppingsHandler(toppingsSvc)
	saucesH := handler.NewToppingsHandler(saucesSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	tablesH := handler.NewTablesHandler(tableSvc)
	archiveH := handler.NewArchiveHandler(archiveSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	r.GET("/health", handler.Health(handler.HealthDeps{
		DB:        db,
		Redis:     rdb,
		MailerCB:  mailerCB,
		AMQP:      ext.AMQP,
		WSClients: hub.ClientCount,
	}))
	r.GET("/ws", hub.ServeWS)

	v1 := r.Group("/v1")
	{
		order := v1.Group("/order")
		{
			order.POST("", ordersH.Open)
			order.GET("", ordersH.List)
			order.GET("/:id", ordersH.Get)
			order.PATCH("/:id", ordersH.Update)
			order.GET("/:id/ticket.pdf", ordersH.Ticket)
			order.POST("/:id/details", ordersH.AddDetails)
			order.DELETE("/:id/details/:detailId", ordersH.RemoveDetail)
			order.POST("/pending/:id", ordersH.RequestClose)
			order.POST("/close/:id", ordersH.Close)
			order.POST("/cancel/:id", ordersH.Cancel)
			order.POST("/transfer-order/:id", ordersH.Transfer)
		}

		cash := v1.Group("/daily-cash")
		{
			cash.POST("", cashH.Open)
			cash.GET("", cashH.History)
			cash.GET("/today", cashH.Today)
			cash.POST("/income", cashH.Income)
			cash.POST("/expense", cashH.Expense)
			cash.GET("/:id", cashH.Get)
			cash.PATCH("/:id", cashH.Close)
			cash.GET("/:id/report.pdf", cashH.Report)
		}

		customers := v1.Group("/customer")
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/:id", customersH.Get)
			customers.PATCH("/:id", customersH.Update)
			customers.DELETE("/:id", customersH.Delete)
		}

		toppings := v1.Group("/toppings-group")
		{
			toppings.POST("", toppingsH.Create)
			toppings.GET("", toppingsH.List)
			toppings.GET("/:id", toppingsH.Get)
			toppings.PATCH("/:id", toppingsH.Update)
			toppings.DELETE("/:id", toppingsH.Delete)
		}

		sauces := v1.Group("/sauce-group")
		{
			sauces.POST("", saucesH.Create)
			sauces.GET("", saucesH.List)
			sauces.GET("/:id", saucesH.Get)
			sauces.PATCH("/:id", saucesH.Update)
			sauces.DELETE("/:id", saucesH.Delete)
		}

		tables := v1.Group("/tables")
		{
			tables.POST("", tablesH.Create)
			tables.GET("", tablesH.List)
			tables.PATCH("/:id", tablesH.Update)
			tables.DELETE("/:id", tablesH.Delete)
		}

		units := v1.Group("/units")
		{
			units.POST("", catalogH.CreateUnit)
			units.GET("", catalogH.ListUnits)
			units.POST("/conversions", catalogH.CreateConversion)
			units.GET("/conversions", catalogH.ListConversions)
		}

		ingredients := v1.Group("/ingredients")
		{
			ingredients.POST("", catalogH.CreateIngredient)
			ingredients.GET("", catalogH.ListIngredients)
			ingredients.GET("/:id", catalogH.GetIngredient)
			ingredients.PATCH("/:id", catalogH.UpdateIngredient)
			ingredients.PATCH("/:id/cost", catalogH.UpdateIngredientCost)
			ingredients.GET("/:id/cost-history", catalogH.IngredientCostHistory)
		}

		products := v1.Group("/products")
		{
			products.POST("", catalogH.CreateProduct)
			products.GET("", catalogH.ListProducts)
			products.GET("/:id", catalogH.GetProduct)
			products.PUT("/:id", catalogH.UpdateProduct)
			products.DELETE("/:id", catalogH.DeactivateProduct)
			products.GET("/:id/cost-history", catalogH.ProductCostHistory)
		}

		v1.GET("/menu", catalogH.Menu)

		archive := v1.Group("/archive")
		{
			archive.GET("/orders", archiveH.List)
			archive.POST("/run", archiveH.Run)
		}
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return &App{Engine: r, Hub: hub, Pool: pool, Archive: archiveSvc}
}
