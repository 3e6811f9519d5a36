package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/maxvaer/brutecli/internal/config"
	"github.com/maxvaer/brutecli/internal/output"
	"github.com/maxvaer/brutecli/internal/store"
)

func writeList(t *testing.T, words ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := os.WriteFile(path, []byte(strings.Join(words, "\n")), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// loginServer accepts admin:s3cret and admin:letmein.
func loginServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass := r.PostFormValue("user"), r.PostFormValue("pass")
		if user == "admin" && (pass == "s3cret" || pass == "letmein") {
			fmt.Fprint(w, "Welcome to the dashboard")
			return
		}
		fmt.Fprint(w, "Login failed")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func httpJob(srvURL string) config.Job {
	return config.Job{
		Protocol:  config.HTTP,
		Target:    "app.lab",
		Port:      80,
		Threads:   2,
		Timeout:   2 * time.Second,
		URL:       srvURL + "/login",
		UserField: "user",
		PassField: "pass",
		Success:   "dashboard",
	}
}

type testRunner struct {
	*Runner
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestRunner(t *testing.T, opts *config.Options) *testRunner {
	t.Helper()
	var stdout, stderr bytes.Buffer
	r, err := New(opts, output.NewConsoleTo(&stdout, &stderr, true, opts.Quiet))
	if err != nil {
		t.Fatal(err)
	}
	r.interactive = false
	return &testRunner{Runner: r, stdout: &stdout, stderr: &stderr}
}

func TestRunJobFindsCredential(t *testing.T) {
	srv := loginServer(t)
	outFile := filepath.Join(t.TempDir(), "results.json")
	tr := newTestRunner(t, &config.Options{OutputFile: outFile, OutputFormat: "json"})

	job := httpJob(srv.URL)
	job.UserList = writeList(t, "guest", "admin")
	job.PassList = writeList(t, "nope", "s3cret")

	found, err := tr.RunJob(context.Background(), 0, job)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected credentials to be found")
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	if got := tr.stdout.String(); got != "[+] admin:s3cret\n" {
		t.Errorf("stdout = %q", got)
	}
	if !strings.Contains(tr.stderr.String(), "[•] 4 combos → HTTP app.lab (2 threads)") {
		t.Errorf("missing banner in:\n%s", tr.stderr.String())
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	var entries []struct {
		Protocol string `json:"protocol"`
		Found    bool   `json:"found"`
		Username string `json:"username"`
		Password string `json:"password"`
		Total    int    `json:"total"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("bad JSON output: %v\n%s", err, data)
	}
	if len(entries) != 1 || !entries[0].Found || entries[0].Password != "s3cret" || entries[0].Total != 4 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestRunJobNotFound(t *testing.T) {
	srv := loginServer(t)
	tr := newTestRunner(t, &config.Options{})

	job := httpJob(srv.URL)
	job.Username = "root"
	job.PassList = writeList(t, "a", "b", "c")

	found, err := tr.RunJob(context.Background(), 0, job)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("unexpected success")
	}
	errOut := tr.stderr.String()
	for _, want := range []string{"[•] 3 combos → HTTP app.lab (2 threads)", "[-] No valid credentials found.", "[✓] Finished in"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("missing %q in:\n%s", want, errOut)
		}
	}
	if tr.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", tr.stdout.String())
	}
}

func TestRunJobWordlistFallback(t *testing.T) {
	srv := loginServer(t)
	tr := newTestRunner(t, &config.Options{})

	job := httpJob(srv.URL)
	job.Username = "admin"
	job.PassList = filepath.Join(t.TempDir(), "missing.txt")

	found, err := tr.RunJob(context.Background(), 0, job)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Error("expected a built-in password to match")
	}
	if !strings.Contains(tr.stderr.String(), "[!] can't read passlist") {
		t.Errorf("missing fallback warning in:\n%s", tr.stderr.String())
	}
}

func TestRunJobBadProxy(t *testing.T) {
	tr := newTestRunner(t, &config.Options{Proxy: "://bad"})
	job := config.Job{Protocol: config.SSH, Target: "127.0.0.1", Port: 22, Threads: 1, Timeout: time.Second}
	if _, err := tr.RunJob(context.Background(), 0, job); err == nil {
		t.Error("expected error for unparseable proxy")
	}
}

func TestRunJobRecordsHistory(t *testing.T) {
	srv := loginServer(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")
	tr := newTestRunner(t, &config.Options{DBPath: dbPath, Quiet: true})

	job := httpJob(srv.URL)
	job.Username = "admin"
	job.PassList = writeList(t, "s3cret")
	if _, err := tr.RunJob(context.Background(), 3, job); err != nil {
		t.Fatal(err)
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	rows, err := s.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Round != 3 || !rows[0].Found || rows[0].Username != "admin" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestRunJobFiresHook(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	srv := loginServer(t)
	hookOut := filepath.Join(t.TempDir(), "hook.json")
	tr := newTestRunner(t, &config.Options{OnSuccessCmd: "cat > " + hookOut, Quiet: true})

	job := httpJob(srv.URL)
	job.Username = "admin"
	job.PassList = writeList(t, "s3cret")
	if _, err := tr.RunJob(context.Background(), 0, job); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(hookOut)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"password":"s3cret"`) {
		t.Errorf("hook payload = %s", data)
	}
}

func TestRunBatchSkipsInvalidJob(t *testing.T) {
	srv := loginServer(t)
	pw := writeList(t, "s3cret")
	batchFile := filepath.Join(t.TempDir(), "tasks.yaml")
	yaml := fmt.Sprintf(`
- protocol: http
  target: one.lab
  threads: 2
  timeout: 2
  username: admin
  passlist: %[2]s
  url: %[1]s/login
  user_field: user
  pass_field: pass
  success: dashboard
- target: two.lab
  threads: 2
  timeout: 2
- protocol: http
  target: three.lab
  threads: 2
  timeout: 2
  username: nobody
  passlist: %[2]s
  url: %[1]s/login
  user_field: user
  pass_field: pass
  success: dashboard
`, srv.URL, pw)
	if err := os.WriteFile(batchFile, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	outFile := filepath.Join(t.TempDir(), "results.csv")
	tr := newTestRunner(t, &config.Options{BatchFile: batchFile, OutputFile: outFile, OutputFormat: "csv"})
	if err := tr.RunBatch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	errOut := tr.stderr.String()
	for _, want := range []string{"=== Batch round #1 ===", "[!] Skipping job #2: invalid job: protocol is required"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("missing %q in:\n%s", want, errOut)
		}
	}
	if strings.Contains(errOut, "Batch round #2") {
		t.Error("ran a second round without --loop")
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv has %d lines, want header + 2 jobs:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[1], "one.lab") || !strings.Contains(lines[2], "three.lab") {
		t.Errorf("unexpected job order:\n%s", data)
	}
}

func TestRunBatchLoopStopsOnCancel(t *testing.T) {
	srv := loginServer(t)
	batchFile := filepath.Join(t.TempDir(), "tasks.json")
	body := fmt.Sprintf(`[{"protocol":"http","target":"a","threads":1,"timeout":1,"username":"admin","passlist":%q,"url":%q,"user_field":"user","pass_field":"pass","success":"dashboard"}]`,
		writeList(t, "x"), srv.URL+"/login")
	if err := os.WriteFile(batchFile, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	tr := newTestRunner(t, &config.Options{BatchFile: batchFile, Loop: true, Delay: 3600})
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := tr.RunBatch(ctx); err != nil {
		t.Fatalf("RunBatch = %v, want nil on cancellation", err)
	}
	if !strings.Contains(tr.stderr.String(), "[•] Sleeping 3600s before next round…") {
		t.Errorf("missing sleep notice in:\n%s", tr.stderr.String())
	}
}

func TestRunBatchFatalFile(t *testing.T) {
	tr := newTestRunner(t, &config.Options{BatchFile: filepath.Join(t.TempDir(), "missing.yaml")})
	if err := tr.RunBatch(context.Background()); err == nil {
		t.Error("expected error for unreadable batch file")
	}
}
