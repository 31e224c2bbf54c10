// Package config loads, normalizes, and validates progress configuration.
//
// Settings come from repository defaults, an optional TOML file, an optional
// .env file and the process environment (SUPABASE_API_URL,
// SUPABASE_SERVICE_ROLE_KEY, PUSHOVER_USER_KEY, PUSHOVER_TOKEN, ...). The CLI
// builds one Config at startup and hands the relevant sections to each
// component; nothing below cmd/ reads the environment.
package config
