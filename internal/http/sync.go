package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/netmon"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/scheduler"
)

// SyncController exposes the sync trigger, per-operation states and the
// online/offline indicator.
type SyncController struct {
	scheduler *scheduler.SyncScheduler
	network   *netmon.Monitor
}

func NewSyncController(s *scheduler.SyncScheduler, network *netmon.Monitor) *SyncController {
	return &SyncController{scheduler: s, network: network}
}

// Trigger handles POST /api/sync: queues an immediate pass. A pass
// already in flight absorbs the trigger.
func (sc *SyncController) Trigger(c *gin.Context) {
	if sc.scheduler.IsSyncing() {
		c.JSON(http.StatusAccepted, gin.H{"status": "already_syncing"})
		return
	}
	sc.scheduler.RunNow("api")
	c.JSON(http.StatusAccepted, gin.H{"status": "triggered"})
}

// Status handles GET /api/sync/status.
func (sc *SyncController) Status(c *gin.Context) {
	placements, adjustments, catalog := sc.scheduler.Status()

	response := gin.H{
		"syncing":     sc.scheduler.IsSyncing(),
		"placements":  placements,
		"adjustments": adjustments,
		"catalog":     catalog,
	}
	if next := sc.scheduler.NextRunTime(); next != nil {
		response["next_scheduled_run"] = next.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, response)
}

// Network handles GET /api/network: the point-in-time connectivity signal
// behind the UI's online/offline indicator.
func (sc *SyncController) Network(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": sc.network.IsAvailable()})
}
