// Package server wires repositories, services and handlers into a fiber app.
package server

import (
	"context"
	"reflect"
	"sync"
	"time"

	"go-erp-admin/internal/config"
	"go-erp-admin/internal/handler"
	"go-erp-admin/internal/middleware"
	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"
	"go-erp-admin/internal/service"
	"go-erp-admin/internal/ws"
	"go-erp-admin/pkg/session"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps is the application context built once at start-up.
type Deps struct {
	Config   *config.Config
	Log      *logrus.Logger
	DB       *gorm.DB
	Redis    *redis.Client
	Sessions *session.Store
	Hub      *ws.Hub
}

var registerParsers sync.Once

// registerDecimalParsers lets form bodies fill decimal fields.
func registerDecimalParsers() {
	registerParsers.Do(func() {
		fiber.SetParserDecoder(fiber.ParserConfig{
			IgnoreUnknownKeys: true,
			ZeroEmpty:         true,
			ParserType: []fiber.ParserType{
				{
					Customtype: decimal.Decimal{},
					Converter: func(value string) reflect.Value {
						d, err := decimal.NewFromString(value)
						if err != nil {
							return reflect.Value{}
						}
						return reflect.ValueOf(d)
					},
				},
				{
					Customtype: decimal.NullDecimal{},
					Converter: func(value string) reflect.Value {
						if value == "" {
							return reflect.ValueOf(decimal.NullDecimal{})
						}
						d, err := decimal.NewFromString(value)
						if err != nil {
							return reflect.Value{}
						}
						return reflect.ValueOf(decimal.NewNullDecimal(d))
					},
				},
			},
		})
	})
}

// Seed creates the default privileges, roles and bootstrap admin.
func Seed(d Deps) error {
	if err := repository.NewPrivilegeRepo(d.DB).SeedDefaults(); err != nil {
		return err
	}
	if err := repository.NewRoleRepo(d.DB).SeedDefaults(); err != nil {
		return err
	}
	users := service.NewUserService(
		repository.NewUserRepo(d.DB), repository.NewPrivilegeRepo(d.DB), repository.NewRoleRepo(d.DB), d.Log,
	)
	_, err := users.EnsureAdmin(d.Config.AdminUsername, d.Config.AdminPassword)
	return err
}

// NewApp builds the HTTP application.
func NewApp(d Deps) *fiber.App {
	registerDecimalParsers()
	cfg, log := d.Config, d.Log

	// Repositories
	userRepo := repository.NewUserRepo(d.DB)
	privilegeRepo := repository.NewPrivilegeRepo(d.DB)
	roleRepo := repository.NewRoleRepo(d.DB)
	materialCategoryRepo := repository.NewMaterialCategoryRepo(d.DB)
	productCategoryRepo := repository.NewProductCategoryRepo(d.DB)
	materialRepo := repository.NewMaterialRepo(d.DB)
	productRepo := repository.NewProductRepo(d.DB)
	supplierRepo := repository.NewSupplierRepo(d.DB)
	purchaseRepo := repository.NewPurchaseRepo(d.DB)
	qualityRepo := repository.NewQualityControlRepo(d.DB)
	financeRepo := repository.NewFinanceRepo(d.DB)
	stockRepo := repository.NewStockRepo(d.DB)
	reportRepo := repository.NewReportRepo(d.DB)

	// Services
	authService := service.NewAuthService(userRepo, d.Sessions, []byte(cfg.SessionSecret), log)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo, log)
	materialService := service.NewMaterialService(d.DB, materialRepo, materialCategoryRepo, stockRepo)
	productService := service.NewProductService(d.DB, productRepo, productCategoryRepo, materialRepo, stockRepo)
	stockService := service.NewStockService(d.DB, stockRepo, d.Hub, log)

	authHandler := handler.NewAuthHandler(authService, cfg.SessionCookie, cfg.IsProduction(), log)
	userHandler := handler.NewUserHandler(userService, log)
	materialHandler := handler.NewMaterialHandler(materialService, log)
	materialCategoryHandler := handler.NewCategoryHandler(service.NewMaterialCategoryService(materialCategoryRepo), log)
	productHandler := handler.NewProductHandler(productService, log)
	productCategoryHandler := handler.NewCategoryHandler(service.NewProductCategoryService(productCategoryRepo), log)
	supplierHandler := handler.NewSupplierHandler(service.NewSupplierService(supplierRepo), log)
	purchaseHandler := handler.NewPurchaseHandler(service.NewPurchaseService(purchaseRepo, supplierRepo, materialRepo, productRepo), log)
	qualityHandler := handler.NewQualityControlHandler(service.NewQualityControlService(qualityRepo, purchaseRepo), log)
	financeHandler := handler.NewFinanceHandler(service.NewFinanceService(financeRepo), log)
	stockHandler := handler.NewStockHandler(stockService, log)
	reportHandler := handler.NewReportHandler(service.NewReportService(reportRepo), log)

	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.SecureHeaders(cfg.IsProduction()))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err == nil && d.Redis != nil {
			err = d.Redis.Ping(ctx).Err()
		}
		if err != nil {
			log.WithError(err).Warn("health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ============ PUBLIC ROUTES ============
	limit := middleware.LoginLimiter(cfg.LoginRateLimit)
	app.Post("/login", limit, authHandler.Login)
	app.Post("/reset-password", limit, authHandler.ResetPassword)

	// WebSocket feed of stock updates
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", middleware.RequireAuth(authService, cfg.SessionCookie, log), websocket.New(func(c *websocket.Conn) {
		if !d.Hub.Join(c) {
			return
		}
		defer d.Hub.Leave(c)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// ============ PROTECTED ROUTES ============
	protected := app.Group("", middleware.RequireAuth(authService, cfg.SessionCookie, log))
	view := middleware.RequireCapability(model.CapView)
	need := middleware.RequireCapability

	protected.Get("/logout", authHandler.Logout)
	protected.Get("/me", authHandler.Me)

	// Materials
	supplies := need(model.CapManageSupplies)
	protected.Get("/materials", view, materialHandler.List)
	protected.Get("/materials/manage", supplies, materialHandler.List)
	protected.Post("/materials/manage", supplies, materialHandler.Create)
	protected.Get("/materials/manage/:id", supplies, materialHandler.Get)
	protected.Post("/materials/manage/:id", supplies, materialHandler.Update)
	protected.Post("/materials/:id/delete", supplies, materialHandler.Delete)

	protected.Get("/material_categories", view, materialCategoryHandler.List)
	protected.Post("/material_categories", supplies, materialCategoryHandler.Create)
	protected.Get("/material_categories/:id", view, materialCategoryHandler.Get)
	protected.Post("/material_categories/:id", supplies, materialCategoryHandler.Update)
	protected.Post("/material_categories/:id/delete", supplies, materialCategoryHandler.Delete)

	// Products and bills of materials
	products := need(model.CapManageProducts)
	protected.Get("/products", view, productHandler.List)
	protected.Get("/products/manage", products, productHandler.List)
	protected.Post("/products/manage", products, productHandler.Create)
	protected.Get("/products/manage/:id", products, productHandler.Get)
	protected.Post("/products/manage/:id", products, productHandler.Update)
	protected.Post("/products/:id/delete", products, productHandler.Delete)
	protected.Get("/products/:id/materials", view, productHandler.ListMaterials)
	protected.Post("/products/:id/materials", products, productHandler.AddMaterial)
	protected.Post("/products/:id/materials/:lineID/delete", products, productHandler.RemoveMaterial)
	protected.Get("/products/:id/process", products, productHandler.GetProcess)
	protected.Post("/products/:id/process", products, productHandler.SaveProcess)
	protected.Get("/products/:id/budget_formulas", products, productHandler.ListFormulas)
	protected.Post("/products/:id/budget_formulas", products, productHandler.AddFormula)
	protected.Post("/products/:id/budget_formulas/:formulaID", products, productHandler.UpdateFormula)
	protected.Post("/products/:id/budget_formulas/:formulaID/delete", products, productHandler.RemoveFormula)

	protected.Get("/product_categories", view, productCategoryHandler.List)
	protected.Post("/product_categories", products, productCategoryHandler.Create)
	protected.Get("/product_categories/:id", view, productCategoryHandler.Get)
	protected.Post("/product_categories/:id", products, productCategoryHandler.Update)
	protected.Post("/product_categories/:id/delete", products, productCategoryHandler.Delete)

	// Suppliers
	suppliers := need(model.CapManageSuppliers)
	protected.Get("/suppliers", view, supplierHandler.List)
	protected.Post("/suppliers", suppliers, supplierHandler.Create)
	protected.Get("/suppliers/:id", view, supplierHandler.Get)
	protected.Post("/suppliers/:id", suppliers, supplierHandler.Update)
	protected.Post("/suppliers/:id/delete", suppliers, supplierHandler.Delete)

	// Purchases
	purchases := need(model.CapManagePurchases)
	protected.Get("/purchase_management", view, purchaseHandler.List)
	protected.Post("/purchase_management", purchases, purchaseHandler.Create)
	protected.Get("/purchase_management/:id", view, purchaseHandler.Get)
	protected.Post("/purchase_management/:id", purchases, purchaseHandler.Update)
	protected.Post("/purchase_management/:id/delete", purchases, purchaseHandler.Delete)

	// Quality control
	quality := need(model.CapManageQualityControls)
	protected.Get("/quality_control", view, qualityHandler.List)
	protected.Post("/quality_control", quality, qualityHandler.Create)
	protected.Get("/quality_control/:id", view, qualityHandler.Get)
	protected.Post("/quality_control/:id", quality, qualityHandler.Update)
	protected.Post("/quality_control/:id/delete", quality, qualityHandler.Delete)

	// Warehouse
	protected.Get("/warehouse_management", view, stockHandler.ListEntries)
	protected.Post("/warehouse_management", need(model.CapManageWarehouses), stockHandler.Adjust)
	protected.Get("/warehouse_management/movements", view, stockHandler.ListMovements)

	// Finance
	finances := need(model.CapManageFinances)
	protected.Get("/finance_management", view, financeHandler.List)
	protected.Post("/finance_management", finances, financeHandler.Create)
	protected.Get("/finance_management/:id", view, financeHandler.Get)
	protected.Post("/finance_management/:id", finances, financeHandler.Update)
	protected.Post("/finance_management/:id/delete", finances, financeHandler.Delete)

	// Reports
	reports := need(model.CapManageReports)
	protected.Get("/report", reports, reportHandler.Summary)
	protected.Get("/report/stock-movement", reports, reportHandler.StockMovement)

	// User management
	users := need(model.CapManageUsers)
	protected.Get("/edit_user_permissions", users, userHandler.ListUsers)
	protected.Get("/edit_user_permissions/:id", users, userHandler.GetPermissions)
	protected.Post("/edit_user_permissions/:id", users, userHandler.EditPermissions)
	protected.Post("/users", users, userHandler.CreateUser)
	protected.Get("/roles", users, userHandler.GetRoles)
	protected.Get("/privileges", users, userHandler.GetPrivileges)

	return app
}
