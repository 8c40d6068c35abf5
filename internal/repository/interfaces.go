package repository

// NetworkChecker is the point-in-time connectivity signal consumed before
// any opportunistic or scheduled remote call.
type NetworkChecker interface {
	IsAvailable() bool
}

// SyncSummary reports one reconciliation pass over a mutation queue.
type SyncSummary struct {
	Attempted int
	Succeeded int
	Failed    int
}
