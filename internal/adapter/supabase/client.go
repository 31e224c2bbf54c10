package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"progress/internal/domain"
	"progress/internal/version"
)

const (
	defaultTimeout = 30 * time.Second
	// Postgres unique_violation, surfaced by PostgREST in the error body.
	uniqueViolation = "23505"
)

// Options configures a Client.
type Options struct {
	URL            string
	ServiceRoleKey string
	Table          string
	Timeout        time.Duration
	// HTTPClient is the base client the bearer transport wraps. Optional.
	HTTPClient *http.Client
}

// Client talks to one PostgREST table.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ domain.ProgressRepository = (*Client)(nil)

// APIError is a non-2xx PostgREST response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "supabase returned %d", e.Status)
	if e.Code != "" {
		fmt.Fprintf(&b, " (%s)", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// New builds a Client for the configured table.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.URL), "/")
	if base == "" {
		return nil, errors.New("supabase: url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("supabase: parse url: %w", err)
	}
	key := strings.TrimSpace(opts.ServiceRoleKey)
	if key == "" {
		return nil, errors.New("supabase: service role key is required")
	}
	table := strings.TrimSpace(opts.Table)
	if table == "" {
		return nil, errors.New("supabase: table is required")
	}

	ctx := context.Background()
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: key}))
	client.Timeout = opts.Timeout
	if client.Timeout <= 0 {
		client.Timeout = defaultTimeout
	}

	return &Client{
		endpoint: base + "/rest/v1/" + url.PathEscape(table),
		apiKey:   key,
		http:     client,
	}, nil
}

// row decodes a record whose id column may be a uuid string or a bigint.
type row struct {
	ID json.RawMessage `json:"id"`
	domain.ProgressRecord
}

func (r row) record() domain.ProgressRecord {
	rec := r.ProgressRecord
	rec.ID = ""
	raw := bytes.TrimSpace(r.ID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return rec
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		rec.ID = s
		return rec
	}
	rec.ID = string(raw)
	return rec
}

func records(rows []row) []domain.ProgressRecord {
	out := make([]domain.ProgressRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out
}

// FindByWeek selects all columns for records with the given week number.
func (c *Client) FindByWeek(ctx context.Context, week int) ([]domain.ProgressRecord, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("week_number", fmt.Sprintf("eq.%d", week))

	var rows []row
	if err := c.do(ctx, http.MethodGet, q, nil, "", &rows); err != nil {
		return nil, err
	}
	return records(rows), nil
}

// Insert posts a single row and returns the stored representation.
func (c *Client) Insert(ctx context.Context, rec domain.ProgressRecord) (*domain.ProgressRecord, error) {
	rec.ID = ""
	var rows []row
	err := c.do(ctx, http.MethodPost, nil, []domain.ProgressRecord{rec}, "return=representation", &rows)
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusConflict || apiErr.Code == uniqueViolation) {
		return nil, domain.ErrDuplicateWeek
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &rec, nil
	}
	stored := rows[0].record()
	return &stored, nil
}

// DeleteByID removes the row with the given id.
func (c *Client) DeleteByID(ctx context.Context, id string) (int, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)
	return c.delete(ctx, q)
}

// DeleteByWeek removes rows with the given week number.
func (c *Client) DeleteByWeek(ctx context.Context, week int) (int, error) {
	q := url.Values{}
	q.Set("week_number", fmt.Sprintf("eq.%d", week))
	return c.delete(ctx, q)
}

func (c *Client) delete(ctx context.Context, q url.Values) (int, error) {
	var rows []json.RawMessage
	if err := c.do(ctx, http.MethodDelete, q, nil, "return=representation", &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// ListByWeek selects the report projection ordered by week number.
func (c *Client) ListByWeek(ctx context.Context) ([]domain.ProgressRecord, error) {
	return c.list(ctx, "id,week_number,date,weight")
}

// ListAll selects every column in the same order as ListByWeek.
func (c *Client) ListAll(ctx context.Context) ([]domain.ProgressRecord, error) {
	return c.list(ctx, "*")
}

func (c *Client) list(ctx context.Context, columns string) ([]domain.ProgressRecord, error) {
	q := url.Values{}
	q.Set("select", columns)
	q.Set("order", "week_number.asc,date.asc,id.asc")

	var rows []row
	if err := c.do(ctx, http.MethodGet, q, nil, "", &rows); err != nil {
		return nil, err
	}
	return records(rows), nil
}

func (c *Client) do(ctx context.Context, method string, q url.Values, body any, prefer string, out any) error {
	target := c.endpoint
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode supabase request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build supabase request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode supabase response: %w", err)
	}
	return nil
}
