// Package config handles loading and validating Wayfinder Core configuration.
//
// Values are resolved in three layers: hardcoded defaults, the YAML file,
// then WAYFINDER_* environment variables. Validate collects every problem
// into a single error so a bad deployment is reported in one pass.
//
// Secrets (MQTT password, InfluxDB token, JWT secret) belong in the
// environment or a .env file rather than the committed YAML.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	loc := cfg.Location()
package config
