package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"progress/internal/config"
)

var clearedEnv = []string{
	"SUPABASE_API_URL", "SUPABASE_URL", "SUPABASE_SERVICE_ROLE_KEY", "SUPABASE_TABLE",
	"DATABASE_URL", "SUPABASE_DB_URL", "PROGRESS_BACKEND", "PROGRESS_SQLITE_PATH",
	"PUSHOVER_USER_KEY", "PUSHOVER_TOKEN", "PUSHOVER_APP_TOKEN", "PUSHOVER_API_URL",
	"PROGRESS_LOG_LEVEL", "PROGRESS_LOG_FORMAT",
}

type cliTestEnv struct {
	baseDir    string
	configPath string
	envPath    string

	mu       sync.Mutex
	messages []string
}

func setupCLITestEnv(t *testing.T, storage string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", base)
	for _, key := range clearedEnv {
		t.Setenv(key, "")
	}
	t.Setenv("PUSHOVER_USER_KEY", "user-key")
	t.Setenv("PUSHOVER_TOKEN", "app-token")

	env := &cliTestEnv{baseDir: base}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		env.mu.Lock()
		env.messages = append(env.messages, r.PostForm.Get("message"))
		env.mu.Unlock()
		_, _ = io.WriteString(w, `{"status":1,"request":"req"}`)
	}))
	t.Cleanup(server.Close)
	t.Setenv("PUSHOVER_API_URL", server.URL)

	if storage == "" {
		storage = fmt.Sprintf("backend = \"sqlite\"\nsqlite_path = '%s'\n", filepath.Join(base, "progress.db"))
	}
	body := fmt.Sprintf("[storage]\n%s\n[notifications]\napi_url = '%s'\n\n[lock]\npath = '%s'\ntimeout_seconds = 1\n",
		storage, server.URL, filepath.Join(base, "add.lock"))

	env.configPath = filepath.Join(base, "config.toml")
	if err := os.WriteFile(env.configPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	env.envPath = filepath.Join(base, "test.env")
	if err := os.WriteFile(env.envPath, nil, 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return env
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ctx := newCommandContext()
	ctx.now = func() time.Time { return time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local) }

	cmd := newRootCommandWith(ctx)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.configPath, "--env-file", e.envPath}, args...))
	err := cmd.Execute()
	if testing.Verbose() && stderr.Len() > 0 {
		t.Logf("stderr for %v:\n%s", args, stderr.String())
	}
	return stdout.String(), err
}

func (e *cliTestEnv) lastMessage(t *testing.T) string {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.messages) == 0 {
		t.Fatal("expected a notification")
	}
	return e.messages[len(e.messages)-1]
}

func (e *cliTestEnv) messageCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.messages)
}

func (e *cliTestEnv) listJSON(t *testing.T, extra ...string) []listEntry {
	t.Helper()
	out, err := e.run(t, append([]string{"list", "--json"}, extra...)...)
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}
	var entries []listEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode list output %q: %v", out, err)
	}
	return entries
}

func requireContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, got)
	}
}

func TestAddRemoveLifecycle(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, err := env.run(t, "add", "--week", "1")
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	requireContains(t, out, "✓ Entry added successfully to 'progress' table")
	requireContains(t, out, "Date: 2024-01-01")
	if msg := env.lastMessage(t); msg != "Entry Created" {
		t.Fatalf("notification = %q", msg)
	}

	out, err = env.run(t, "add", "--week", "1")
	if err != nil {
		t.Fatalf("duplicate add should exit cleanly: %v", err)
	}
	requireContains(t, out, "already exists")
	requireContains(t, out, "Existing entry: Date=2024-01-01, Weight=75 kg")
	if msg := env.lastMessage(t); msg != "Entry already exist" {
		t.Fatalf("notification = %q", msg)
	}
	if entries := env.listJSON(t); len(entries) != 1 {
		t.Fatalf("expected one row after duplicate add, got %d", len(entries))
	}

	out, err = env.run(t, "remove", "1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	requireContains(t, out, "✓ Entry with week_number 1 removed successfully from 'progress' table")
	if msg := env.lastMessage(t); msg != "Entry Deleted" {
		t.Fatalf("notification = %q", msg)
	}

	out, err = env.run(t, "remove", "1")
	if err != nil {
		t.Fatalf("not-found remove should exit cleanly: %v", err)
	}
	requireContains(t, out, "✗ Entry with week_number 1 not found")
	if msg := env.lastMessage(t); msg != "Entry not Found" {
		t.Fatalf("notification = %q", msg)
	}
	if entries := env.listJSON(t); len(entries) != 0 {
		t.Fatalf("expected empty table, got %+v", entries)
	}
}

func TestRemoveByID(t *testing.T) {
	env := setupCLITestEnv(t, "")
	for _, week := range []string{"2", "1"} {
		if _, err := env.run(t, "add", "--week", week); err != nil {
			t.Fatalf("add week %s: %v", week, err)
		}
	}

	entries := env.listJSON(t)
	if len(entries) != 2 || entries[0].WeekNumber != 1 || entries[1].WeekNumber != 2 {
		t.Fatalf("expected weeks 1,2 in order, got %+v", entries)
	}

	out, err := env.run(t, "remove", "--id", entries[0].ID)
	if err != nil {
		t.Fatalf("remove --id: %v", err)
	}
	requireContains(t, out, "ID "+entries[0].ID)

	remaining := env.listJSON(t)
	if len(remaining) != 1 || remaining[0].ID != entries[1].ID {
		t.Fatalf("expected only week 2 to remain, got %+v", remaining)
	}
}

func TestRemoveWithoutSelector(t *testing.T) {
	env := setupCLITestEnv(t, "")
	out, err := env.run(t, "remove")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported failure, got %v", err)
	}
	requireContains(t, out, "Please provide either week_number or entry_id")
	requireContains(t, out, "Usage:")
	if msg := env.lastMessage(t); msg != "Problem running Remove Script" {
		t.Fatalf("notification = %q", msg)
	}
}

func TestRemoveInvalidWeek(t *testing.T) {
	env := setupCLITestEnv(t, "")
	out, err := env.run(t, "remove", "abc")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported failure, got %v", err)
	}
	requireContains(t, out, "Invalid week number: abc")
	if env.messageCount() != 0 {
		t.Fatalf("expected no notification, got %d", env.messageCount())
	}
}

func TestAddInvalidRecord(t *testing.T) {
	env := setupCLITestEnv(t, "")
	out, err := env.run(t, "add", "--weight", "-3")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported failure, got %v", err)
	}
	requireContains(t, out, "Error adding entry")
	if msg := env.lastMessage(t); msg != "Problem running Add Script" {
		t.Fatalf("notification = %q", msg)
	}
}

func TestAddFromEntryFile(t *testing.T) {
	env := setupCLITestEnv(t, "")
	entry := filepath.Join(env.baseDir, "entry.toml")
	body := "week_number = 4\ndate = \"2024-01-22\"\nweight = 80\nwaist = 33.5\n"
	if err := os.WriteFile(entry, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := env.run(t, "add", "--file", entry, "--bmi", "24.1"); err != nil {
		t.Fatalf("add --file: %v", err)
	}
	entries := env.listJSON(t)
	if len(entries) != 1 || entries[0].WeekNumber != 4 || entries[0].Date != "2024-01-22" || entries[0].Weight != 80 {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	bad := filepath.Join(env.baseDir, "bad.toml")
	if err := os.WriteFile(bad, []byte("colour = \"red\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "add", "--file", bad); err == nil {
		t.Fatal("expected unknown keys in entry file to fail")
	}
}

func TestListOutput(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, err := env.run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "No entries found in database")

	if _, err := env.run(t, "add", "--week", "3", "--weight", "100"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err = env.run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Current entries in database:")
	requireContains(t, out, "Weight (kg)")
	requireContains(t, out, "100.0")

	entries := env.listJSON(t, "--unit", "lb")
	if len(entries) != 1 || entries[0].Unit != "lb" || entries[0].Weight < 220.4 || entries[0].Weight > 220.5 {
		t.Fatalf("unexpected lb listing: %+v", entries)
	}

	if _, err := env.run(t, "list", "--unit", "stone"); err == nil {
		t.Fatal("expected error for unknown unit")
	}

	out, err = env.run(t, "remove", "--list")
	if err != nil {
		t.Fatalf("remove --list: %v", err)
	}
	requireContains(t, out, "Current entries in database:")
}

func TestConfigErrorNotifies(t *testing.T) {
	env := setupCLITestEnv(t, "backend = \"postgres\"\n")
	_, err := env.run(t, "add")
	if !errors.Is(err, config.ErrMissingDatabaseURL) {
		t.Fatalf("expected ErrMissingDatabaseURL, got %v", err)
	}
	if msg := env.lastMessage(t); msg != "Problem running Add Script" {
		t.Fatalf("notification = %q", msg)
	}

	if _, err := env.run(t, "list"); !errors.Is(err, config.ErrMissingDatabaseURL) {
		t.Fatalf("expected ErrMissingDatabaseURL from list, got %v", err)
	}
	if env.messageCount() != 1 {
		t.Fatalf("list must not notify, got %d messages", env.messageCount())
	}
}

func TestTestNotify(t *testing.T) {
	env := setupCLITestEnv(t, "")
	out, err := env.run(t, "test-notify")
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent (request req)")
	if msg := env.lastMessage(t); msg != "Test notification from progress" {
		t.Fatalf("notification = %q", msg)
	}

	t.Setenv("PUSHOVER_TOKEN", "")
	if _, err := env.run(t, "test-notify"); err == nil {
		t.Fatal("expected error without credentials")
	}
}

func TestConfigCommands(t *testing.T) {
	env := setupCLITestEnv(t, "")
	target := filepath.Join(env.baseDir, "nested", "config.toml")

	out, err := env.run(t, "config", "init", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration to "+target)

	if _, err := env.run(t, "config", "init", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, err := env.run(t, "config", "init", "--overwrite", target); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, err = env.run(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Backend: sqlite")
	requireContains(t, out, "Notifications: yes")
	requireContains(t, out, "Configuration valid")
}

func TestMemoryBackend(t *testing.T) {
	env := setupCLITestEnv(t, "backend = \"memory\"")

	if _, err := env.run(t, "add", "--week", "1", "--weight", "80"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if msg := env.lastMessage(t); msg != "Entry Created" {
		t.Fatalf("notification = %q", msg)
	}

	out, err := env.run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "No entries found in database")
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "Week"}, [][]string{{"a", "1"}, {"b"}}, []columnAlignment{alignLeft, alignRight})
	for _, want := range []string{"ID", "Week", "a", "b"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"WEEK", "<nil>"} {
		if strings.Contains(out, unwanted) {
			t.Fatalf("unexpected %q in table:\n%s", unwanted, out)
		}
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestTrend(t *testing.T) {
	env := setupCLITestEnv(t, "")
	for _, args := range [][]string{
		{"add", "--week", "1", "--weight", "80"},
		{"add", "--week", "2", "--weight", "79"},
	} {
		if _, err := env.run(t, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	out, err := env.run(t, "trend")
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	requireContains(t, out, "Change")
	requireContains(t, out, "-1.0")

	out, err = env.run(t, "trend", "--json", "--last", "1")
	if err != nil {
		t.Fatalf("trend --json: %v", err)
	}
	var points []struct {
		WeekNumber int      `json:"week_number"`
		Change     *float64 `json:"change"`
	}
	if err := json.Unmarshal([]byte(out), &points); err != nil {
		t.Fatalf("decode trend: %v", err)
	}
	if len(points) != 1 || points[0].WeekNumber != 2 || points[0].Change == nil || *points[0].Change != -1 {
		t.Fatalf("unexpected trend points: %+v", points)
	}
}
