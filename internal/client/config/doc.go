// Package config loads runtime configuration for the Biscotto client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   server base url, e.g. http://127.0.0.1:5000/api
//	-f string   local state database file
//	-t int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:5000/api",
//	  "state_db_path": "biscotto.db",
//	  "request_timeout": "15s"
//	}
package config
