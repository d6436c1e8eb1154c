package integration

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"propval/internal/handlers"
	"propval/internal/logger"
	"propval/internal/models"
	"propval/internal/services"
	"propval/internal/validator"
	"propval/internal/valuation"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.ValuationRecord{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	engine := valuation.NewEngine(nil,
		valuation.WithClock(func() time.Time {
			return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
		}),
		valuation.WithGenerator(valuation.NewSyntheticGenerator(1)),
	)
	registry := valuation.NewRegistry(engine)

	// Services
	auditService := services.NewAuditService(db)
	valuationService := services.NewValuationService(db, engine, auditService)
	modelService := services.NewModelService(registry, auditService)
	historyService := services.NewHistoryService(db)

	// Handlers
	valuationHandler := handlers.NewValuationHandler(valuationService)
	modelHandler := handlers.NewModelHandler(modelService)
	historyHandler := handlers.NewHistoryHandler(historyService)

	// Router; auth middleware is left out since AUTH_ENABLED is off in tests.
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")

	valuations := v1.Group("/valuations")
	valuations.POST("", valuationHandler.PerformValuation)
	valuations.POST("/batch", valuationHandler.BatchValuation)
	valuations.POST("/sensitivity", valuationHandler.Sensitivity)

	modelRoutes := v1.Group("/models")
	modelRoutes.GET("", modelHandler.ListModels)
	modelRoutes.POST("", modelHandler.RegisterModel)
	modelRoutes.GET("/:id", modelHandler.GetModel)
	modelRoutes.PUT("/:id", modelHandler.UpdateModel)
	modelRoutes.DELETE("/:id", modelHandler.DeleteModel)
	modelRoutes.POST("/:id/activate", modelHandler.ActivateModel)
	modelRoutes.POST("/:id/calculate", modelHandler.CalculateWithModel)
	modelRoutes.GET("/:id/export", modelHandler.ExportModel)
	modelRoutes.POST("/compare", modelHandler.CompareModels)
	modelRoutes.POST("/import", modelHandler.ImportModel)

	history := v1.Group("/history")
	history.GET("", historyHandler.ListHistory)
	history.GET("/:id", historyHandler.GetHistory)
	history.POST("/compare", historyHandler.CompareHistory)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// propertyJSON is a valid request property used across the flow tests.
const propertyJSON = `{
	"area": 100,
	"city": "长沙",
	"district": "岳麓区",
	"property_type": "住宅",
	"decoration_level": "精装",
	"orientation": "南北通透",
	"construction_year": 2015,
	"floor": 5,
	"total_floors": 18,
	"lot_ratio": 2.5,
	"green_ratio": 35,
	"nearby_facilities": ["地铁", "学校"]
}`
