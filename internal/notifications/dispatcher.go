package notifications

import (
	"context"
	"log/slog"

	"progress/internal/config"
	"progress/internal/domain"
)

// Dispatcher maps workflow outcomes to notifications.
type Dispatcher struct {
	sender        Sender
	title         string
	sound         string
	priority      int
	errorPriority int
	logger        *slog.Logger
}

// NewDispatcher wires a Sender with the title, sound and priorities from cfg.
// A nil sender behaves like Noop.
func NewDispatcher(sender Sender, cfg config.Notifications, logger *slog.Logger) *Dispatcher {
	if sender == nil {
		sender = Noop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	title := cfg.Title
	if title == "" {
		title = "Supabase Activity"
	}
	return &Dispatcher{
		sender:        sender,
		title:         title,
		sound:         cfg.Sound,
		priority:      cfg.Priority,
		errorPriority: cfg.ErrorPriority,
		logger:        logger.With("component", "notifications"),
	}
}

// MessageFor returns the notification text for an outcome.
func MessageFor(out domain.Outcome) string {
	switch out.Action {
	case domain.ActionAdd:
		switch out.Kind {
		case domain.OutcomeCreated:
			return "Entry Created"
		case domain.OutcomeDuplicate:
			return "Entry already exist"
		default:
			return "Problem running Add Script"
		}
	case domain.ActionRemove:
		switch out.Kind {
		case domain.OutcomeDeleted:
			return "Entry Deleted"
		case domain.OutcomeNotFound:
			return "Entry not Found"
		default:
			return "Problem running Remove Script"
		}
	}
	return "Problem running script"
}

// Message builds the full notification for an outcome.
func (d *Dispatcher) Message(out domain.Outcome) Message {
	priority := d.priority
	if !out.Success() {
		priority = d.errorPriority
	}
	return Message{
		Text:     MessageFor(out),
		Title:    d.title,
		Priority: priority,
		Sound:    d.sound,
	}
}

// Dispatch sends the notification for out. Delivery failures are logged and
// swallowed.
func (d *Dispatcher) Dispatch(ctx context.Context, out domain.Outcome) {
	msg := d.Message(out)
	receipt, err := d.sender.Send(ctx, msg)
	if err != nil {
		d.logger.Warn("notification failed", "message", msg.Text, "error", err)
		return
	}
	if receipt != nil {
		d.logger.Debug("notification sent", "message", msg.Text, "request", receipt.Request)
	}
}

// Test sends a fixed message through the sender and returns any error, for
// checking credentials from the CLI.
func (d *Dispatcher) Test(ctx context.Context) (*Receipt, error) {
	return d.sender.Send(ctx, Message{
		Text:     "Test notification from progress",
		Title:    d.title,
		Priority: d.priority,
		Sound:    d.sound,
	})
}
