package config

const (
	// DefaultDatabasePath is the default path for the on-device database
	DefaultDatabasePath = "./storage-mobile.db"

	// DefaultWarehouseBaseURL points at the warehouse service
	DefaultWarehouseBaseURL = "http://localhost:9000"

	// DefaultMaxSyncAttempts is the retry credit budget per pending record
	DefaultMaxSyncAttempts = 3

	// DefaultWarehouseID is used until an operator selects a warehouse
	DefaultWarehouseID = "1"
)
