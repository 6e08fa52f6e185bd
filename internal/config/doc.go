// Package config handles configuration loading for the sigil console.
//
// # Configuration File
//
// Configuration is YAML, by default at $XDG_CONFIG_HOME/sigil/console.yaml;
// SIGIL_CONSOLE_CONFIG overrides the path. A missing file falls back to
// defaults, so the console runs with only SIGIL_GATEWAY_URL set.
//
// # Environment Variable Expansion
//
// Values can reference environment variables with ${VAR_NAME} syntax:
//
//	gateway:
//	  url: "${SIGIL_GATEWAY_URL}"
//
// # Sections
//
//	gateway:
//	  url: "https://gateway.example.com"
//	  timeout: "30s"        # per-request HTTP timeout
//	  expiry_leeway: "30s"  # refresh this long before token expiry
//
//	cache:
//	  enabled: true
//	  ttl: "30s"
//	  max_entries: 256
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//
//	state:
//	  dir: ""   # override the XDG state directory
//
// Duration values use Go's time.ParseDuration syntax.
package config
