package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go-worklogger/internal/config"
	"go-worklogger/internal/session"
	"go-worklogger/internal/worklog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"JIRA_BASE_URL", "JIRA_USERNAME", "JIRA_API_TOKEN",
	"LLM_PROVIDER", "LLM_MODEL", "OPENAI_API_KEY", "OPENAI_BASE_URL",
	"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "OLLAMA_HOST",
	"TIMEZONE", "SUBMIT_CONCURRENCY", "HTTP_TIMEOUT_SECONDS",
	"WORKLOGGER_LOG_LEVEL", "WORKLOGGER_LOG_FILE",
	"RECORDER_MAX_SECONDS", "AUDIO_DIR",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "worklogger version dev\n", out)
}

func TestLogMissingConfig(t *testing.T) {
	clearEnv(t)

	_, err := execute(t, "log", "2h", "on", "PROJ-1")

	var missing *config.MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"OPENAI_API_KEY", "JIRA_API_TOKEN", "JIRA_USERNAME", "JIRA_BASE_URL"}, missing.Keys)
}

func TestLogEndToEnd(t *testing.T) {
	clearEnv(t)

	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		content := `{"entries":[
			{"ticket_id":"PROJ123","time_spent":"2h","comment":"fixing bugs","work_date":"2025-04-22"},
			{"ticket_id":"GONE-9","time_spent":"1h","comment":"meeting","work_date":"2025-04-22"}]}`
		resp := map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": content}}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer llm.Close()

	var (
		mu    sync.Mutex
		paths []string
	)
	jiraSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		if strings.Contains(r.URL.Path, "GONE-9") {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"errorMessages":["Issue does not exist"]}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer jiraSrv.Close()

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", llm.URL)
	t.Setenv("JIRA_BASE_URL", jiraSrv.URL)
	t.Setenv("JIRA_USERNAME", "me@example.com")
	t.Setenv("JIRA_API_TOKEN", "token")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("WORKLOGGER_LOG_FILE", filepath.Join(t.TempDir(), "worklogger.log"))

	_, err := execute(t, "log", "2h on PROJ123 fixing bugs and 1h meeting on GONE-9")

	require.Error(t, err)
	assert.Equal(t, "1 of 2 worklogs failed", err.Error())
	assert.Equal(t, []string{
		"/rest/api/2/issue/PROJ-123/worklog",
		"/rest/api/2/issue/GONE-9/worklog",
	}, paths)
}

func TestFailures(t *testing.T) {
	assert.NoError(t, failures(session.Report{}))
	assert.NoError(t, failures(session.Report{Outcomes: []worklog.Outcome{{Success: true}}}))
	assert.EqualError(t, failures(session.Report{Outcomes: []worklog.Outcome{{Success: true}, {}, {}}}), "2 of 3 worklogs failed")
}
