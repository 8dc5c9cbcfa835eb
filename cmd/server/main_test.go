package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finsmart/internal/config"
	"finsmart/internal/demo"
	"finsmart/internal/handlers"
	"finsmart/internal/logging"
	"finsmart/internal/service"
	"finsmart/internal/session"
	"finsmart/internal/storage/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	db, err := sqlite.NewDB(":memory:")
	require.NoError(t, err, "failed to create database")
	defer db.Close()

	logger, err := logging.NewWithOutput("debug", "json", io.Discard)
	require.NoError(t, err)

	h := handlers.NewHandlers(
		service.NewAuthService(db, session.NewManager(db), nil),
		service.NewFinanceService(db, nil),
		demo.NewTimeSeeded(),
		false,
	)
	mux := setupRouter(h, []string{"*"}, logger)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "Health is public", method: "GET", path: "/healthz", wantStatus: http.StatusOK},
		{name: "Check-auth is public", method: "GET", path: "/api/check-auth", wantStatus: http.StatusOK},
		{name: "Transactions require auth", method: "GET", path: "/api/transactions", wantStatus: http.StatusUnauthorized},
		{name: "Demo requires auth", method: "GET", path: "/api/demo/dashboard", wantStatus: http.StatusUnauthorized},
		{name: "Preflight is answered", method: "OPTIONS", path: "/api/login", wantStatus: http.StatusNoContent},
		{name: "Wrong method", method: "DELETE", path: "/api/budgets", wantStatus: http.StatusMethodNotAllowed},
		{name: "Unknown path", method: "GET", path: "/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			req.Header.Set("Origin", "http://localhost:8080")
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, "%s %s returned unexpected status", tt.method, tt.path)
			assert.NotEmpty(t, w.Header().Get(logging.RequestIDHeader))
		})
	}
}

func TestOpenStoreDefaultsToSQLite(t *testing.T) {
	store, err := openStore(context.Background(), config.Config{DBDriver: config.DriverSQLite, DBPath: ":memory:"})
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*sqlite.DB)
	assert.True(t, ok)
}

func TestOpenPublisherWithoutURLIsNop(t *testing.T) {
	p, err := openPublisher(config.Config{}, nil)
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestSweepSessionsStopsOnCancel(t *testing.T) {
	db, err := sqlite.NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	logger, err := logging.NewWithOutput("debug", "text", &buf)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweepSessions(ctx, session.NewManager(db), 5*time.Millisecond, logger)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
