package api

import (
	"net/http"
	"testing"
	"time"

	"sispar/internal/api/handlers"
	"sispar/pkg/auth"
	"sispar/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testApp(serverCfg *config.ServerConfig) *fiber.App {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return SetupRouter(serverCfg,
		&handlers.CollaboratorHandler{},
		&handlers.ReimbursementHandler{},
		&handlers.ReceiptHandler{},
		&handlers.AnalysisHandler{},
		&handlers.ChatHandler{},
		jwtManager, zap.NewNop())
}

func TestSetupRouterAppliesServerTimeouts(t *testing.T) {
	app := testApp(&config.ServerConfig{
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
	})

	assert.Equal(t, 15*time.Second, app.Config().ReadTimeout)
	assert.Equal(t, 20*time.Second, app.Config().WriteTimeout)
}

func TestHealthEndpoint(t *testing.T) {
	app := testApp(&config.ServerConfig{})

	req, err := http.NewRequest(http.MethodGet, "/health", nil)
	require.NoError(t, err)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
