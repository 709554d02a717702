// Package config provides configuration management for Ganymede.
//
// This package handles loading, validating, and summarizing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// ${VAR} references inside the file are expanded from the environment before
// parsing, which is the recommended way to inject API keys.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention GANYMEDE_SECTION_FIELD:
//
//   - GANYMEDE_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - GANYMEDE_INFERENCE_API_KEY overrides inference.api_key
//   - GANYMEDE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Adapters
//
// Adapters are declared as an ordered list:
//
//	adapters:
//	  - name: support-faq
//	    implementation: relational.sqlite
//	    datasource: sqlite
//	    adapter: qa
//	    config:
//	      table: faq
//	      confidence_threshold: 0.3
//
// Duplicate adapter names are rejected at load time.
package config
