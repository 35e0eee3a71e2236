// Package config handles configuration loading for ponga-gateway.
//
// # Overview
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then environment variables. Validation runs last and any failure is fatal
// at startup.
//
// # Configuration File
//
// The file path comes from PONGA_CONFIG. Without it only defaults and the
// environment are used.
//
//	server:
//	  http_addr: "0.0.0.0:3000"
//
//	auth:
//	  mode: "symmetric"          # or "asymmetric"
//	  jwt_secret: "${PONGA_SECRET}"
//	  jwk_uri: "https://keys.example.com/jwks.json"
//	  private_key_path: "/etc/ponga/private.pem"
//	  issuer: "ponga"
//	  token_ttl: "1h"
//	  max_token_ttl: "24h"
//
//	logging:
//	  level: "info"              # debug, info, warn, error
//	  format: "text"             # text or json
//
// ${VAR_NAME} references are expanded before parsing; unset variables become
// empty strings.
//
// # Environment Overrides
//
// These take precedence over the file:
//
//	AUTH_MODE         auth.mode
//	JWT_SECRET        auth.jwt_secret
//	JWK_URI           auth.jwk_uri
//	PRIVATE_KEY_PATH  auth.private_key_path
//	HTTP_PORT         server.http_addr becomes 0.0.0.0:<port>
//	LOG_LEVEL         logging.level
//	LOG_FORMAT        logging.format
//
// # Validation
//
// auth.mode is required. Symmetric mode requires jwt_secret; asymmetric mode
// requires jwk_uri and private_key_path. token_ttl must not exceed
// max_token_ttl.
package config
