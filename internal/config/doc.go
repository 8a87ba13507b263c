// Package config loads the dashboard configuration.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values from struct tags (lowest priority)
//
// # Environment Variables
//
// All environment variables use the PULSE_ prefix and the section name:
//
//	PULSE_SERVER_PORT=8080
//	PULSE_LOGGING_LEVEL=debug
//	PULSE_SOURCES_KIND=sheets
//	PULSE_SOURCES_SPREADSHEET_ID=1AbC...
//	PULSE_DASHBOARD_SATISFACTION_THRESHOLD=60
//
// # Validation
//
// Load validates the result with go-playground/validator struct tags plus a
// few cross-field rules, so a returned Config is always usable.
package config
