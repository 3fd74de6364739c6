// Package database handles database connections.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration. A sqlite driver is also
// supported so tests can run against an in-memory database.
//
// # Connect
//
// The generic Connect function establishes a connection to the database and verifies
// it with a ping (MySQL only; sqlite opens lazily).
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
