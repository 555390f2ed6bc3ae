package service

import (
	"io"
	"testing"
	"time"

	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"
	"go-erp-admin/pkg/database/dbtest"
	"go-erp-admin/pkg/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recorder struct {
	events []interface{}
}

func (r *recorder) Publish(v interface{}) {
	r.events = append(r.events, v)
}

type env struct {
	db         *gorm.DB
	log        *logrus.Logger
	events     *recorder
	sessions   *session.Store
	redis      *miniredis.Miniredis
	users      UserService
	auth       AuthService
	categories CategoryService[model.MaterialCategory]
	materials  MaterialService
	products   ProductService
	suppliers  SupplierService
	purchases  PurchaseService
	stock      StockService
	report     ReportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.Open(t, model.AllModels()...)
	log := logrus.New()
	log.SetOutput(io.Discard)

	require.NoError(t, repository.NewPrivilegeRepo(db).SeedDefaults())
	require.NoError(t, repository.NewRoleRepo(db).SeedDefaults())

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := session.NewStore(client, time.Hour)

	userRepo := repository.NewUserRepo(db)
	materialRepo := repository.NewMaterialRepo(db)
	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	stockRepo := repository.NewStockRepo(db)
	materialCategories := repository.NewMaterialCategoryRepo(db)
	events := &recorder{}

	return &env{
		db:         db,
		log:        log,
		events:     events,
		sessions:   sessions,
		redis:      mr,
		users:      NewUserService(userRepo, repository.NewPrivilegeRepo(db), repository.NewRoleRepo(db), log),
		auth:       NewAuthService(userRepo, sessions, []byte("0123456789abcdef0123"), log),
		categories: NewMaterialCategoryService(materialCategories),
		materials:  NewMaterialService(db, materialRepo, materialCategories, stockRepo),
		products:   NewProductService(db, productRepo, repository.NewProductCategoryRepo(db), materialRepo, stockRepo),
		suppliers:  NewSupplierService(supplierRepo),
		purchases:  NewPurchaseService(repository.NewPurchaseRepo(db), supplierRepo, materialRepo, productRepo),
		stock:      NewStockService(db, stockRepo, events, log),
		report:     NewReportService(repository.NewReportRepo(db)),
	}
}

// user creates an active user holding exactly the given capabilities.
func (e *env) user(t *testing.T, username string, admin bool, caps ...model.Capability) *model.User {
	t.Helper()
	codes := make([]string, len(caps))
	for i, c := range caps {
		codes[i] = string(c)
	}
	privileges, err := repository.NewPrivilegeRepo(e.db).FindByCodes(codes)
	require.NoError(t, err)

	u := &model.User{Username: username, IsAdmin: admin, IsActive: true, Privileges: privileges}
	require.NoError(t, u.SetPassword("secret-pass"))
	require.NoError(t, repository.NewUserRepo(e.db).Create(u))
	loaded, err := repository.NewUserRepo(e.db).FindByID(u.ID)
	require.NoError(t, err)
	return loaded
}

func (e *env) material(t *testing.T, code, name string, qty int64) *model.Material {
	t.Helper()
	m, err := e.materials.Create(&MaterialRequest{
		CategoryID: e.materialCategory(t).ID.String(),
		Name:       name,
		Code:       code,
		Unit:       "pcs",
		Quantity:   decimal.NewFromInt(qty),
	}, "tester")
	require.NoError(t, err)
	return m
}

func (e *env) materialCategory(t *testing.T) *model.MaterialCategory {
	t.Helper()
	var existing model.MaterialCategory
	if err := e.db.Where("code = ?", "RAW").First(&existing).Error; err == nil {
		return &existing
	}
	c, err := e.categories.Create(&CategoryRequest{Name: "Raw materials", Code: "RAW"}, "tester")
	require.NoError(t, err)
	return c
}

func (e *env) quantity(t *testing.T, m *model.Material) decimal.Decimal {
	t.Helper()
	got, err := e.materials.Get(m.ID)
	require.NoError(t, err)
	return got.Quantity
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
