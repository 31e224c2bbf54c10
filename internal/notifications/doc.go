// Package notifications delivers workflow outcomes as Pushover push
// notifications.
//
// Sender is the transport surface; NewPushover fails fast with
// ErrNotConfigured when credentials are missing so callers can fall back to
// Noop. Dispatcher turns a domain.Outcome into a message and never fails the
// workflow that produced it.
package notifications
