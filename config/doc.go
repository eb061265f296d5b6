// Package config provides configuration loading and validation for Binder.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (BINDER_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with BINDER_ prefix:
//   - server.port → BINDER_SERVER_PORT
//   - database.type → BINDER_DATABASE_TYPE
//   - storage.bucket → BINDER_STORAGE_BUCKET
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: HTTP port
//   - Database: type (sqlite/postgres), DSN, pool size and table name
//   - Storage: S3 bucket, region, credentials and upload expiry
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Database type must be sqlite or postgres
//   - Log level must be debug, info, warn, or error
//
// Storage credentials are deliberately not required here; a deployment
// is allowed to load without S3 settings and fails at signer
// construction instead.
package config
