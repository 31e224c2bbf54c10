package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"progress/internal/config"
	"progress/internal/version"
)

// ErrNotConfigured is returned when the Pushover user key or app token is
// missing.
var ErrNotConfigured = errors.New("pushover: PUSHOVER_USER_KEY and PUSHOVER_TOKEN must be set")

// Message is a single push notification.
type Message struct {
	Text     string
	Title    string
	Priority int
	Sound    string
}

// Receipt is the decoded Pushover response body.
type Receipt struct {
	Status  int      `json:"status"`
	Request string   `json:"request"`
	Receipt string   `json:"receipt,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) (*Receipt, error)
}

type pushover struct {
	endpoint string
	userKey  string
	appToken string
	client   *http.Client
}

// NewPushover builds a Sender for the Pushover messages API.
func NewPushover(cfg config.Notifications) (Sender, error) {
	userKey := strings.TrimSpace(cfg.UserKey)
	appToken := strings.TrimSpace(cfg.AppToken)
	if userKey == "" || appToken == "" {
		return nil, ErrNotConfigured
	}
	endpoint := strings.TrimSpace(cfg.APIURL)
	if endpoint == "" {
		endpoint = "https://api.pushover.net/1/messages.json"
	}
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &pushover{
		endpoint: endpoint,
		userKey:  userKey,
		appToken: appToken,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

func (p *pushover) Send(ctx context.Context, msg Message) (*Receipt, error) {
	if strings.TrimSpace(msg.Text) == "" {
		return nil, errors.New("pushover: message text is required")
	}

	form := url.Values{}
	form.Set("token", p.appToken)
	form.Set("user", p.userKey)
	form.Set("message", msg.Text)
	if msg.Title != "" {
		form.Set("title", msg.Title)
	}
	if msg.Priority != 0 {
		form.Set("priority", strconv.Itoa(msg.Priority))
		if msg.Priority >= 2 {
			// Emergency priority is rejected without a retry schedule.
			form.Set("retry", "60")
			form.Set("expire", "3600")
		}
	}
	if msg.Sound != "" {
		form.Set("sound", msg.Sound)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build pushover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send pushover notification: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return nil, fmt.Errorf("read pushover response: %w", err)
	}

	var receipt Receipt
	decodeErr := json.Unmarshal(body, &receipt)
	if resp.StatusCode >= 300 {
		if decodeErr == nil && len(receipt.Errors) > 0 {
			return &receipt, fmt.Errorf("pushover returned %d: %s", resp.StatusCode, strings.Join(receipt.Errors, "; "))
		}
		return nil, fmt.Errorf("pushover returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode pushover response: %w", decodeErr)
	}
	if receipt.Status != 1 {
		return &receipt, fmt.Errorf("pushover rejected message: %s", strings.Join(receipt.Errors, "; "))
	}
	return &receipt, nil
}

type noop struct{}

// Noop returns a Sender that drops every message.
func Noop() Sender { return noop{} }

func (noop) Send(context.Context, Message) (*Receipt, error) { return nil, nil }
