// Package config loads runtime configuration for the catvote CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional dotenv file (see parseEnv) selected with -env, ".env" by default.
//  3. Process environment, which overrides the dotenv file.
//  4. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  5. Command-line flags (see parseFlags), which override earlier values.
//
// Environment variables
//
//	CATVOTE_API_URL   base URL of the vote service
//	CATVOTE_API_KEY   API key sent as x-api-key
//	CATVOTE_DB        path of the local SQLite database
//
// Supported flags
//
//	-a string   base URL of the vote service
//	-k string   API key
//	-d string   path of the local SQLite database
//	-i int      online status check interval (seconds)
//	-w int      vote debounce delay (milliseconds)
//	-n int      number of images fetched by the gallery command
//	-v          verbose (debug) logging
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "300ms"
// or integer nanoseconds. Absent or zero fields keep the earlier value:
//
//	{
//	  "api_url": "https://api.thecatapi.com/v1",
//	  "api_key": "live_xxx",
//	  "database_path": "catvote.db",
//	  "debounce_delay": "300ms",
//	  "request_timeout": "10s",
//	  "online_check_interval": "30s",
//	  "gallery_limit": 10,
//	  "verbose": false
//	}
package config
