package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	ledgerBackend string
	clients       func() int
}

var healthHandler *HealthHandler

func NewHealthHandler(ledgerBackend string, clients func() int) *HealthHandler {
	return &HealthHandler{
		ledgerBackend: ledgerBackend,
		clients:       clients,
	}
}

func SetupHealthHandler(ledgerBackend string, clients func() int) {
	healthHandler = NewHealthHandler(ledgerBackend, clients)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	body := map[string]interface{}{
		"status": "ok",
		"ledger": h.ledgerBackend,
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if h.clients != nil {
		body["websocket_clients"] = h.clients()
	}
	return c.JSON(http.StatusOK, body)
}
