package testutil

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aled/logistics-sandbox/internal/aggregate"
	"github.com/aled/logistics-sandbox/internal/api"
	"github.com/aled/logistics-sandbox/internal/config"
	"github.com/aled/logistics-sandbox/internal/erp/erpfake"
	repoPostgres "github.com/aled/logistics-sandbox/internal/repository/postgres"
	"github.com/aled/logistics-sandbox/internal/service"
	"github.com/aled/logistics-sandbox/internal/store"
	"github.com/aled/logistics-sandbox/internal/token"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a throwaway sqlite database with the session-graph
// schema. One connection keeps sqlite's writer model out of the tests'
// way.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "sandbox.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestConfig() *config.Config {
	return &config.Config{
		Port:                 "0",
		Environment:          "test",
		JWTSecret:            "test-secret",
		ERPAdminToken:        erpfake.AdminToken,
		AggregationTimeout:   5 * time.Second,
		DemoCreateRatePerMin: 1000,
	}
}

// TestServer is the full stack over a sqlite database and a fake ERP
// backend.
type TestServer struct {
	Server   *httptest.Server
	Fake     *erpfake.Fake
	Services *service.Services
	Store    *store.Store
	Codec    *token.Codec
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	db := NewTestDB(t)
	cfg := TestConfig()
	fake := erpfake.New()
	log := zerolog.Nop()

	repos := repoPostgres.NewRepositories(db)
	st := store.New(repos.Demo, fake, cfg.ERPAdminToken, log)
	codec := token.NewCodec(cfg.JWTSecret)
	engine := aggregate.New(cfg.AggregationTimeout)
	services := service.NewServices(st, fake, codec, engine, log)

	ts := httptest.NewServer(api.NewRouter(services, cfg, log))
	t.Cleanup(ts.Close)

	return &TestServer{
		Server:   ts,
		Fake:     fake,
		Services: services,
		Store:    st,
		Codec:    codec,
	}
}
