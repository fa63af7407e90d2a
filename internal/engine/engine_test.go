package engine

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/surgehttp/surge/internal/allowlist"
	"github.com/surgehttp/surge/internal/client"
	"github.com/surgehttp/surge/internal/config"
	"github.com/surgehttp/surge/internal/crawler"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T, mode config.Mode, rawURL string) *config.Config {
	t.Helper()

	cfg := config.NewConfig()
	cfg.Mode = mode
	cfg.AllowList = allowlist.Any()

	if rawURL != "" {
		u, err := url.Parse(rawURL)
		if err != nil {
			t.Fatalf("parse %q: %v", rawURL, err)
		}
		cfg.URL = u
	}
	return cfg
}

func testClient(cfg *config.Config) *http.Client {
	return client.New(client.Options{
		ConnectTimeout: cfg.ConnectTimeout,
		RequestTimeout: cfg.RequestTimeout,
		AllowList:      cfg.AllowList,
	})
}

func TestQueueFIFO(t *testing.T) {
	t.Parallel()

	q := newQueue()
	defer q.close()

	links := make([]crawler.Link, 5)
	for i := range links {
		u, err := url.Parse("http://example.com/" + strconv.Itoa(i))
		if err != nil {
			t.Fatal(err)
		}
		links[i] = crawler.Seed(u)
		if !q.push(action{item: links[i]}) {
			t.Fatalf("push %d failed on open queue", i)
		}
	}

	for i := range links {
		a, ok := <-q.out
		if !ok {
			t.Fatalf("queue closed after %d receives", i)
		}
		if got, want := a.item.URL.String(), links[i].URL.String(); got != want {
			t.Errorf("receive %d = %q, want %q", i, got, want)
		}
	}
}

func TestQueuePushAfterClose(t *testing.T) {
	t.Parallel()

	q := newQueue()
	q.close()
	q.close() // idempotent

	if q.push(action{tick: true}) {
		t.Error("push succeeded on closed queue")
	}
}

func TestQueueCloseUnblocksProducer(t *testing.T) {
	t.Parallel()

	q := newQueue()
	u, err := url.Parse("http://example.com/")
	if err != nil {
		t.Fatal(err)
	}
	seed := crawler.Seed(u)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for q.push(action{item: seed}) {
		}
	}()

	// Never receive; the producer fills the buffer until close.
	time.Sleep(20 * time.Millisecond)
	q.close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("producer still blocked after close")
	}
}

func TestExpandRandom(t *testing.T) {
	t.Parallel()

	t.Run("no token", func(t *testing.T) {
		t.Parallel()

		const s = "http://example.com/page?id=7"
		if got := ExpandRandom(s); got != s {
			t.Errorf("ExpandRandom(%q) = %q, want unchanged", s, got)
		}
	})

	t.Run("single token in range", func(t *testing.T) {
		t.Parallel()

		got := ExpandRandom("id=%RAND(10,20)%")
		n, err := strconv.Atoi(strings.TrimPrefix(got, "id="))
		if err != nil {
			t.Fatalf("ExpandRandom produced %q: %v", got, err)
		}
		if n < 10 || n > 20 {
			t.Errorf("value %d outside [10, 20]", n)
		}
	})

	t.Run("inverted bounds swapped", func(t *testing.T) {
		t.Parallel()

		got := ExpandRandom("%RAND(9,3)%")
		n, err := strconv.Atoi(got)
		if err != nil {
			t.Fatalf("ExpandRandom produced %q: %v", got, err)
		}
		if n < 3 || n > 9 {
			t.Errorf("value %d outside [3, 9]", n)
		}
	})

	t.Run("degenerate range", func(t *testing.T) {
		t.Parallel()

		if got := ExpandRandom("%RAND(5,5)%"); got != "5" {
			t.Errorf("ExpandRandom = %q, want 5", got)
		}
	})

	t.Run("multiple tokens", func(t *testing.T) {
		t.Parallel()

		got := ExpandRandom("a=%RAND(1,2)%&b=%RAND(100,200)%")
		if !regexp.MustCompile(`^a=\d+&b=\d+$`).MatchString(got) {
			t.Errorf("ExpandRandom = %q, want both tokens replaced", got)
		}
	})
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}

	r.Record(Outcome{URL: "http://example.com/", Status: 200})
	r.Record(Outcome{URL: "http://example.com/x", Err: io.ErrUnexpectedEOF})

	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}

	got := r.Snapshot()
	if got[0].Failed() {
		t.Error("Failed() = true for outcome without error")
	}
	if !got[1].Failed() {
		t.Error("Failed() = false for outcome with error")
	}

	// Snapshot is a copy.
	got[0].Status = 500
	if r.Snapshot()[0].Status != 200 {
		t.Error("Snapshot aliases internal slice")
	}
}

func TestRunSingleModeRequestCap(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	cfg := testConfig(t, config.ModeSingle, srv.URL+"/")
	cfg.Requests = 5

	e := New(cfg, testClient(cfg), WithLogger(quietLogger()))
	outcomes := e.Run(context.Background())

	if len(outcomes) != 5 {
		t.Fatalf("got %d outcomes, want 5", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Failed() {
			t.Errorf("outcome %d failed: %v", i, o.Err)
		}
		if o.Status != http.StatusOK {
			t.Errorf("outcome %d status = %d, want 200", i, o.Status)
		}
		if o.BodyLength != 2 {
			t.Errorf("outcome %d body length = %d, want 2", i, o.BodyLength)
		}
	}
}

func TestRunDiscoverModeDeduplicates(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, `<html><body>
			<a href="/a">a</a>
			<a href="/a">a again</a>
			<a href="/b">b</a>
		</body></html>`)
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "a")
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "b")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := testConfig(t, config.ModeDiscover, srv.URL+"/")
	cfg.Requests = 3
	cfg.PreventDuplicates = true

	e := New(cfg, testClient(cfg), WithLogger(quietLogger()))
	outcomes := e.Run(context.Background())

	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}

	seen := make(map[string]int)
	for _, o := range outcomes {
		if o.Failed() {
			t.Errorf("outcome %q failed: %v", o.URL, o.Err)
		}
		seen[o.URL]++
	}
	for _, path := range []string{"/", "/a", "/b"} {
		if seen[srv.URL+path] != 1 {
			t.Errorf("URL %s requested %d times, want 1", path, seen[srv.URL+path])
		}
	}
}

func TestRunSingleModeIgnoresLinks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, `<html><body><a href="/other">x</a></body></html>`)
	}))
	defer srv.Close()

	cfg := testConfig(t, config.ModeSingle, srv.URL+"/")
	cfg.Requests = 3

	e := New(cfg, testClient(cfg), WithLogger(quietLogger()))
	outcomes := e.Run(context.Background())

	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	for _, o := range outcomes {
		if o.URL != srv.URL+"/" {
			t.Errorf("requested %q, want only the seed URL", o.URL)
		}
	}
}

func TestRunFileModeCycles(t *testing.T) {
	t.Parallel()

	newCounter := func() (*httptest.Server, *Recorder) {
		rec := NewRecorder()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec.Record(Outcome{URL: r.URL.Path})
			io.WriteString(w, "ok")
		}))
		return srv, rec
	}

	srv1, hits1 := newCounter()
	defer srv1.Close()
	srv2, hits2 := newCounter()
	defer srv2.Close()

	cfg := testConfig(t, config.ModeFile, "")
	for _, raw := range []string{srv1.URL + "/", srv2.URL + "/"} {
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatal(err)
		}
		cfg.URLs = append(cfg.URLs, u)
	}
	cfg.Requests = 6

	e := New(cfg, testClient(cfg), WithLogger(quietLogger()))
	outcomes := e.Run(context.Background())

	if len(outcomes) != 6 {
		t.Fatalf("got %d outcomes, want 6", len(outcomes))
	}
	if hits1.Len() != 3 || hits2.Len() != 3 {
		t.Errorf("hits = %d and %d, want an even 3/3 split", hits1.Len(), hits2.Len())
	}
}

func TestRunDurationCap(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	cfg := testConfig(t, config.ModeSingle, srv.URL+"/")
	cfg.Duration = 200 * time.Millisecond

	e := New(cfg, testClient(cfg), WithLogger(quietLogger()))

	start := time.Now()
	outcomes := e.Run(context.Background())
	elapsed := time.Since(start)

	if len(outcomes) == 0 {
		t.Error("no outcomes recorded within the duration cap")
	}
	// The cap plus the drain grace period bounds the run.
	if elapsed > cfg.Duration+cfg.RequestTimeout+time.Second {
		t.Errorf("run took %v, want under %v", elapsed, cfg.Duration+cfg.RequestTimeout)
	}
}

func TestRunInterrupt(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	cfg := testConfig(t, config.ModeSingle, srv.URL+"/")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	e := New(cfg, testClient(cfg), WithLogger(quietLogger()))

	done := make(chan []Outcome, 1)
	go func() { done <- e.Run(ctx) }()

	select {
	case outcomes := <-done:
		if len(outcomes) == 0 {
			t.Error("no outcomes recorded before interrupt")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run did not stop after interrupt")
	}
}

func TestRunRecordsTransportFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening

	cfg := testConfig(t, config.ModeSingle, srv.URL+"/")
	cfg.Requests = 2

	e := New(cfg, testClient(cfg), WithLogger(quietLogger()))
	outcomes := e.Run(context.Background())

	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	for i, o := range outcomes {
		if !o.Failed() {
			t.Errorf("outcome %d succeeded against a closed server", i)
		}
	}
}

func TestRunSendsConfiguredHeaders(t *testing.T) {
	t.Parallel()

	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case headers <- r.Header.Clone():
		default:
		}
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	cfg := testConfig(t, config.ModeSingle, srv.URL+"/")
	cfg.Requests = 1
	cfg.UserAgent = "surge-test"
	cfg.Headers.Set("X-Custom", "custom-value")
	cfg.BasicAuth = &config.BasicAuth{Username: "alice", Password: "secret"}

	e := New(cfg, testClient(cfg), WithLogger(quietLogger()))
	if outcomes := e.Run(context.Background()); len(outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(outcomes))
	}

	got := <-headers
	if ua := got.Get("User-Agent"); ua != "surge-test" {
		t.Errorf("User-Agent = %q, want surge-test", ua)
	}
	if v := got.Get("X-Custom"); v != "custom-value" {
		t.Errorf("X-Custom = %q, want custom-value", v)
	}
	if got.Get("Authorization") == "" {
		t.Error("Authorization header missing")
	}
}
