package entities

import (
	"time"
)

type SyncPhase string

const (
	SyncPhaseIdle    SyncPhase = "idle"
	SyncPhaseRunning SyncPhase = "running"
	SyncPhaseSuccess SyncPhase = "success"
	SyncPhaseError   SyncPhase = "error"
)

// One state type per async operation. Each is a tagged union keyed by
// Phase: payload fields are only meaningful in the phase that sets them.

// PlacementSyncState describes the last placement-queue reconciliation.
type PlacementSyncState struct {
	Phase       SyncPhase  `json:"phase"`
	Attempted   int        `json:"attempted,omitempty"`
	Succeeded   int        `json:"succeeded,omitempty"`
	Failed      int        `json:"failed,omitempty"`
	Error       string     `json:"error,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// AdjustmentSyncState describes the last adjustment-queue reconciliation.
type AdjustmentSyncState struct {
	Phase       SyncPhase  `json:"phase"`
	Attempted   int        `json:"attempted,omitempty"`
	Succeeded   int        `json:"succeeded,omitempty"`
	Failed      int        `json:"failed,omitempty"`
	Error       string     `json:"error,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CatalogRefreshState describes the last full catalog refresh.
type CatalogRefreshState struct {
	Phase       SyncPhase  `json:"phase"`
	ItemCount   int        `json:"item_count,omitempty"`
	Error       string     `json:"error,omitempty"`
	RefreshedAt *time.Time `json:"refreshed_at,omitempty"`
}
