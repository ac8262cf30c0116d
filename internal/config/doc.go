// Package config handles configuration loading for devconnect.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable
// expansion. The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${DEVCONNECT_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
//	server:
//	  http_addr: "0.0.0.0:3001"
//
//	database:
//	  path: "/var/lib/devconnect/devconnect.db"
//
//	auth:
//	  jwt_secret: "${DEVCONNECT_JWT_SECRET}"  # >= 32 bytes, required
//	  token_ttl: "100h"                       # defaults to 360000s
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - server.http_addr presence
//   - database.path presence
//   - JWT secret minimum length (32 bytes)
//   - token_ttl duration format
package config
