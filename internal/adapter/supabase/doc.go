// Package supabase implements the progress repository against a Supabase
// project's PostgREST endpoint (/rest/v1/<table>).
//
// Requests authenticate with the service role key, sent both as the apikey
// header and as an OAuth2 bearer token. Inserts and deletes ask PostgREST to
// return the affected rows so callers can tell "deleted" from "not found".
package supabase
