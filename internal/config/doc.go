// Package config provides configuration management for the orchestrator
// service.
//
// Configuration is loaded from environment variables using the env
// package. All configuration values have sensible defaults so the
// service runs standalone; Redis is only required when the redis event
// bus or the record archive is enabled.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
