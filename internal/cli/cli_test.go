package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/api"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/config"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/logging"
)

// fakeServer serves canned replies for /records, /upload and /query.
type fakeServer struct {
	records     []api.MeetingRecord
	uploadCode  int
	uploadBody  string
	queryCode   int
	queryBody   string
	lastQuery   api.QueryRequest
	uploadNames []string
}

func (b *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/records", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(b.records)
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		f, h, err := r.FormFile("file")
		if err != nil {
			t.Errorf("upload form: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.Close()
		b.uploadNames = append(b.uploadNames, h.Filename)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(b.uploadCode)
		fmt.Fprint(w, b.uploadBody)
	})
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&b.lastQuery); err != nil {
			t.Errorf("query body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(b.queryCode)
		fmt.Fprint(w, b.queryBody)
	})
	return mux
}

type testEnv struct {
	deps    *Dependencies
	backend *fakeServer
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	b := &fakeServer{uploadCode: http.StatusOK, queryCode: http.StatusOK}
	srv := httptest.NewServer(b.handler(t))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := &config.Config{
		API:     config.APIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second},
		History: config.HistoryConfig{RowsPerPage: 5},
		Records: config.RecordsConfig{ShareInflight: true},
		Journal: config.JournalConfig{Enabled: true, Path: filepath.Join(dir, "journal.sqlite")},
		Logging: config.LoggingConfig{Level: "info", Format: "text", File: filepath.Join(dir, "meetintel.log")},
		Output:  config.OutputConfig{Colors: false},
	}

	return &testEnv{
		deps:    &Dependencies{Config: cfg, Logger: logging.Discard()},
		backend: b,
		stdout:  new(bytes.Buffer),
		stderr:  new(bytes.Buffer),
	}
}

func (e *testEnv) run(args ...string) error {
	root := NewRootCmd(e.deps)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)
	root.SetArgs(args)
	return root.Execute()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCmd_Help(t *testing.T) {
	env := setupTest(t)

	if err := env.run("--help"); err != nil {
		t.Fatalf("--help failed: %v", err)
	}

	out := env.stdout.String()
	for _, cmd := range []string{"records", "upload", "ask", "journal", "mcp"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("expected help to list %q, got:\n%s", cmd, out)
		}
	}
}

func TestRootCmd_Version(t *testing.T) {
	env := setupTest(t)

	if err := env.run("--version"); err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.HasPrefix(env.stdout.String(), "meetintel ") {
		t.Errorf("unexpected version output: %q", env.stdout.String())
	}
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	env := setupTest(t)

	if err := env.run("nonexistent-command"); err == nil {
		t.Fatal("expected error for unknown command, got nil")
	}
}

func TestRecordsCmd_Paging(t *testing.T) {
	env := setupTest(t)
	for i := 1; i <= 7; i++ {
		env.backend.records = append(env.backend.records, api.MeetingRecord{
			ID:         int64(i),
			Title:      fmt.Sprintf("Meeting %d", i),
			Transcript: "hello",
			Insights:   "none",
		})
	}

	if err := env.run("records", "--page", "2"); err != nil {
		t.Fatalf("records failed: %v", err)
	}

	out := env.stdout.String()
	if !strings.Contains(out, "Meeting 6") || !strings.Contains(out, "Meeting 7") {
		t.Errorf("expected page 2 rows, got:\n%s", out)
	}
	if strings.Contains(out, "Meeting 5") {
		t.Errorf("page 1 row leaked onto page 2:\n%s", out)
	}
	if !strings.Contains(out, "Page 2 of 2") {
		t.Errorf("expected page label, got:\n%s", out)
	}
}

func TestRecordsCmd_PageClamped(t *testing.T) {
	env := setupTest(t)
	env.backend.records = []api.MeetingRecord{{ID: 1, Title: "Only"}}

	if err := env.run("records", "-p", "40"); err != nil {
		t.Fatalf("records failed: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "Page 1 of 1") {
		t.Errorf("expected clamped page, got:\n%s", env.stdout.String())
	}
}

func TestRecordsCmd_Empty(t *testing.T) {
	env := setupTest(t)

	if err := env.run("records"); err != nil {
		t.Fatalf("records failed: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "No records found") {
		t.Errorf("expected empty notice, got:\n%s", env.stdout.String())
	}
}

func TestRecordsCmd_BackendDown(t *testing.T) {
	env := setupTest(t)
	env.deps.Config.API.BaseURL = "http://127.0.0.1:1"

	if err := env.run("records"); err != nil {
		t.Fatalf("records should degrade to an empty list, got: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "No records found") {
		t.Errorf("expected empty notice, got:\n%s", env.stdout.String())
	}
}

func TestUploadCmd_Summary(t *testing.T) {
	env := setupTest(t)
	env.backend.uploadBody = `{"transcript_success":true,"db_success":true,"chroma_success":false}`
	path := writeFile(t, "standup.wav", "riff")

	if err := env.run("upload", path); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	out := env.stdout.String()
	for _, want := range []string{
		"Upload Summary",
		"Transcript: Success",
		"SQLite DB Write: Success",
		"Chroma Embeddings: Failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if !strings.Contains(env.stderr.String(), "[WARN] 1 of 3 processing steps failed") {
		t.Errorf("expected step warning, got stderr:\n%s", env.stderr.String())
	}
	if len(env.backend.uploadNames) != 1 || env.backend.uploadNames[0] != "standup.wav" {
		t.Errorf("uploaded names = %v", env.backend.uploadNames)
	}
}

func TestUploadCmd_Rejected(t *testing.T) {
	env := setupTest(t)
	env.backend.uploadCode = http.StatusRequestEntityTooLarge
	env.backend.uploadBody = `{"detail":"File too large"}`
	path := writeFile(t, "huge.wav", "riff")

	err := env.run("upload", path)
	if err == nil {
		t.Fatal("expected error for rejected upload")
	}
	if err.Error() != "File too large" {
		t.Errorf("error = %q, want %q", err.Error(), "File too large")
	}
}

func TestUploadCmd_MissingFile(t *testing.T) {
	env := setupTest(t)

	if err := env.run("upload", filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if len(env.backend.uploadNames) != 0 {
		t.Errorf("nothing should be uploaded, got %v", env.backend.uploadNames)
	}
}

func TestAskCmd_Answer(t *testing.T) {
	env := setupTest(t)
	env.backend.queryBody = `{
		"answer": "Ship on Friday.",
		"matches": {"documents": [["We agreed to ship Friday."]], "metadatas": [[{"meeting_id": 3}]]}
	}`

	if err := env.run("ask", "--meeting", "3", "When", "do", "we", "ship?"); err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	if env.backend.lastQuery != (api.QueryRequest{MeetingID: 3, Question: "When do we ship?"}) {
		t.Errorf("query sent = %+v", env.backend.lastQuery)
	}
	out := env.stdout.String()
	for _, want := range []string{"Answer", "Ship on Friday.", "Matched Context", "1. We agreed to ship Friday.", `{"meeting_id":3}`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestAskCmd_Declined(t *testing.T) {
	env := setupTest(t)
	env.backend.queryBody = `{"success": false, "error": "No transcript for meeting 9"}`

	err := env.run("ask", "-m", "9", "anything")
	if err == nil {
		t.Fatal("expected error for declined query")
	}
	if err.Error() != "No transcript for meeting 9" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestAskCmd_RequiresMeeting(t *testing.T) {
	env := setupTest(t)

	if err := env.run("ask", "what happened?"); err == nil {
		t.Fatal("expected error without --meeting")
	}
}

func TestAskCmd_BlankQuestion(t *testing.T) {
	env := setupTest(t)

	if err := env.run("ask", "-m", "1", "  "); err == nil {
		t.Fatal("expected error for blank question")
	}
	if env.backend.lastQuery != (api.QueryRequest{}) {
		t.Errorf("blank question reached the backend: %+v", env.backend.lastQuery)
	}
}

func TestJournalCmd_ListsActivity(t *testing.T) {
	env := setupTest(t)
	env.backend.uploadBody = `{"transcript_success":true,"db_success":true,"chroma_success":true}`
	env.backend.queryBody = `{"answer":"Yes."}`

	if err := env.run("upload", writeFile(t, "retro.m4a", "aac")); err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if err := env.run("ask", "-m", "4", "Did we decide?"); err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	env.stdout.Reset()
	if err := env.run("journal"); err != nil {
		t.Fatalf("journal failed: %v", err)
	}
	out := env.stdout.String()
	for _, want := range []string{"retro.m4a", "Did we decide?", "upload", "query", "Yes."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in journal:\n%s", want, out)
		}
	}

	env.stdout.Reset()
	if err := env.run("journal", "--meeting", "4"); err != nil {
		t.Fatalf("journal --meeting failed: %v", err)
	}
	if strings.Contains(env.stdout.String(), "retro.m4a") {
		t.Errorf("upload should not match a meeting filter:\n%s", env.stdout.String())
	}
}

func TestJournalCmd_Disabled(t *testing.T) {
	env := setupTest(t)
	env.deps.Config.Journal.Enabled = false

	if err := env.run("journal"); err == nil {
		t.Fatal("expected error when journal is disabled")
	}
}
