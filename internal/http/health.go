package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/netmon"
)

// HealthController reports process health. Only the local store decides
// healthy/unhealthy: the warehouse service being unreachable is a normal
// operating mode, so connectivity is informational.
type HealthController struct {
	db      *database.Database
	network *netmon.Monitor
	version string
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Online  bool              `json:"online"`
	Checks  map[string]string `json:"checks"`
}

func NewHealthController(db *database.Database, network *netmon.Monitor, version string) *HealthController {
	return &HealthController{
		db:      db,
		network: network,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := map[string]string{
		"database": h.databaseCheck(),
	}

	status := "healthy"
	statusCode := http.StatusOK
	if checks["database"] != "ok" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Online:  h.network != nil && h.network.IsAvailable(),
		Checks:  checks,
	})
}

func (h *HealthController) databaseCheck() string {
	if h.db == nil {
		return "not configured"
	}
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return "error: " + err.Error()
	}
	if err := sqlDB.Ping(); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
