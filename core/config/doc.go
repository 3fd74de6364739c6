// Package config provides configuration management for the sales reconciler.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port)
//   - Database: MySQL connection details
//   - Storage: S3/MinIO credentials and the export bucket
//   - Ticketing: ticketing API base URL and bearer token
//   - Log: Logging level and format
//
// # Validation
//
// Validate reports settings that have no usable default (export bucket,
// ticketing base URL and token). Commands call it at startup and refuse to
// run without them.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
