package server

import (
	"context"
	"testing"
	"time"

	"github.com/sebak/authd/internal/server/config"
)

func testConfig() *config.Config {
	return &config.Config{
		EndpointAddrHTTP:      ":0",
		DatabaseDSN:           "",
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		BcryptCost:            4,
		LoginRatePerMinute:    10,
		LoginBurst:            10,
	}
}

func TestNewApp_EmptySecretKey(t *testing.T) {
	cfg := testConfig()
	cfg.SecretKey = ""

	if _, err := NewApp(context.Background(), cfg); err == nil {
		t.Fatalf("want error for empty secret key")
	}
}

func TestNewApp_InMemoryWithoutDSN(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("NewApp error: %v", err)
	}
	defer app.rateLimiter.Stop()

	if app.store != nil {
		t.Fatalf("expected no database store for empty DSN")
	}
	if app.authService == nil {
		t.Fatalf("auth service not wired")
	}

	// The in-memory store must actually serve requests.
	if _, err := app.authService.Login(context.Background(), "nobody@x.com", "whatever1", time.Now()); err == nil {
		t.Fatalf("login against empty store must fail")
	}
}
