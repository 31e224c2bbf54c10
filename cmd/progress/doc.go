// Command progress records weekly body measurements in a Supabase (PostgREST),
// Postgres or SQLite table and reports add/remove outcomes through Pushover.
//
// Typical use:
//
//	progress add --week 3 --weight 74.2
//	progress remove 3
//	progress remove --id 9b1d...
//	progress list --unit lb
//
// Settings come from ~/.config/progress/config.toml (see `progress config
// init`), a .env file in the working directory and the environment.
package main
