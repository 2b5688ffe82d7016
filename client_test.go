package dvelop

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/d-velop/dvelop-sdk-go/internal/shardqueue"
	"github.com/d-velop/dvelop-sdk-go/internal/transport"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type stubExec struct {
	mu    sync.Mutex
	keys  []string
	stops int
	err   error
}

func (s *stubExec) Submit(ctx context.Context, key string, job shardqueue.Job) error {
	s.mu.Lock()
	s.keys = append(s.keys, key)
	s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	return job.Run(ctx)
}

func (s *stubExec) Stop() { s.stops++ }

// newTestClient starts h and returns a client pointed at it.
func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, "session-1", append([]Option{WithHTTPClient(srv.Client())}, opts...)...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeHAL(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/hal+json")
	_, _ = w.Write([]byte(body))
}

func TestNew_RequiresBaseURI(t *testing.T) {
	if _, err := New("", "x"); err == nil {
		t.Fatalf("expected error for empty base URI")
	}
	if _, err := New("not absolute", "x", WithExecutor(&stubExec{})); err == nil {
		t.Fatalf("expected error for relative base URI")
	}
}

func TestNew_OptionErrorsAbort(t *testing.T) {
	if _, err := New("http://example.com", "", WithHTTPClient(nil)); err == nil {
		t.Fatalf("expected error for nil http client")
	}
	if _, err := New("http://example.com", "", WithExecutor(nil)); err == nil {
		t.Fatalf("expected error for nil executor")
	}
	if _, err := New("http://example.com", "", WithInterceptor(nil)); err == nil {
		t.Fatalf("expected error for nil interceptor")
	}
}

func TestCloseIdempotent(t *testing.T) {
	s := &stubExec{}
	c, err := New("http://example.com", "", WithExecutor(s))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if s.stops != 1 {
		t.Fatalf("executor stop called %d times", s.stops)
	}
}

func TestAuthHeaderAndRequestID(t *testing.T) {
	var auth, reqID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		reqID = r.Header.Get("X-Request-Id")
		writeHAL(w, `{"id":"u1"}`)
	})

	if _, err := c.ValidateAuthSessionID(context.Background()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if auth != "Bearer session-1" {
		t.Fatalf("authorization = %q", auth)
	}
	if reqID == "" {
		t.Fatalf("expected generated X-Request-Id")
	}
}

func TestExplicitAuthorizationWins(t *testing.T) {
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeHAL(w, `{"AuthSessionId":"new-session","Expire":"2026-10-18T10:00:00Z"}`)
	})

	s, err := c.GetAuthSession(context.Background(), "api-key")
	if err != nil {
		t.Fatalf("get auth session: %v", err)
	}
	if auth != "Bearer api-key" {
		t.Fatalf("authorization = %q", auth)
	}
	if s.ID != "new-session" {
		t.Fatalf("session = %q", s.ID)
	}
}

func TestNoSessionSendsNoAuthorization(t *testing.T) {
	var auth = "unset"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeHAL(w, `{"id":"u1"}`)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "", WithExecutor(&stubExec{}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := c.ValidateAuthSessionID(context.Background()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if auth != "" {
		t.Fatalf("authorization = %q", auth)
	}
}

func TestUserInterceptorRunsAfterLinkFollowing(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dms":
			writeHAL(w, `{"_links":{"repo":{"href":"/dms/r/{repositoryid}"}}}`)
		default:
			if got := r.Header.Get("X-Tenant"); got != "t1" {
				t.Errorf("X-Tenant = %q", got)
			}
			writeHAL(w, `{"id":"r1","name":"Main"}`)
		}
	}, WithInterceptor(func(_ context.Context, req transport.Request) (transport.Request, error) {
		seen = append(seen, req.URL)
		if req.Header == nil {
			req.Header = make(http.Header)
		}
		req.Header.Set("X-Tenant", "t1")
		return req, nil
	}))

	repo, err := c.GetRepository(context.Background(), "r1")
	if err != nil {
		t.Fatalf("get repository: %v", err)
	}
	if repo.Name != "Main" {
		t.Fatalf("repository = %+v", repo)
	}
	// the discovery GET re-enters the chain before the final request
	if len(seen) != 2 || seen[0] != "/dms" || seen[1] != "/dms/r/r1" {
		t.Fatalf("interceptor saw %v", seen)
	}
}

func TestResolveAndFetch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dms":
			writeHAL(w, `{"_links":{"repo":{"href":"/dms/r/{repositoryid}"}}}`)
		case "/dms/r/r1":
			writeHAL(w, `{"_links":{"searchresultbyquery":{"href":"/dms/r/r1/srm{?sourceid,sourcecategories}"}}}`)
		case "/dms/r/r1/srm":
			writeHAL(w, `{"items":[]}`)
		default:
			http.NotFound(w, r)
		}
	})

	nav := Navigation{
		URL:     "/dms",
		Follows: []string{"repo", "searchresultbyquery"},
		Templates: Templates{
			"repositoryid":     StringValue("r1"),
			"sourceid":         StringValue("/dms/r/r1/source"),
			"sourcecategories": ListValue("A", "B"),
		},
	}

	res, err := c.Resolve(context.Background(), nav)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.URL != "/dms/r/r1/srm" {
		t.Fatalf("url = %q", res.URL)
	}
	if res.Params["sourcecategories"] != `["A","B"]` || res.Params["sourceid"] != "/dms/r/r1/source" {
		t.Fatalf("params = %v", res.Params)
	}
	if len(nav.Follows) != 2 {
		t.Fatalf("navigation was mutated: %v", nav.Follows)
	}

	data, err := c.Fetch(context.Background(), nav)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !json.Valid(data) || !strings.Contains(string(data), "items") {
		t.Fatalf("fetch body = %s", data)
	}
}

func TestResolve_MissingRelation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeHAL(w, `{"_links":{}}`)
	})

	_, err := c.Resolve(context.Background(), Navigation{URL: "/dms", Follows: []string{"repo"}})
	var lnf *LinkNotFoundError
	if !errors.As(err, &lnf) {
		t.Fatalf("expected LinkNotFoundError, got %v", err)
	}
	if err.Error() != `No hal-json link found for "repo".` {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestErrorsAreClassified(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	_, err := c.GetTask(context.Background(), "t1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if IsRetryable(err) {
		t.Fatalf("404 must not be retryable")
	}
}

func TestIsRetryable_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.GetTask(context.Background(), "t1")
	if !IsRetryable(err) {
		t.Fatalf("502 should be retryable: %v", err)
	}
	if IsRetryable(errors.New("plain")) {
		t.Fatalf("plain errors are not retryable")
	}
}

func TestIsBackPressure(t *testing.T) {
	if !IsBackPressure(ErrBackPressure) {
		t.Fatalf("expected back pressure")
	}
	if IsBackPressure(errors.New("other")) {
		t.Fatalf("unexpected back pressure detection")
	}
	if !IsBackPressure(wrapSubmitErr(&shardqueue.QueueFullError{Shard: 1, Length: 2, Capacity: 2})) {
		t.Fatalf("queue full must map to back pressure")
	}
}

func TestAwaitConsistency(t *testing.T) {
	s := &stubExec{}
	c, err := New("http://example.com", "", WithExecutor(s))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.AwaitConsistency(context.Background(), "svc"); err != nil {
		t.Fatalf("await: %v", err)
	}
	if len(s.keys) != 1 || s.keys[0] != "svc" {
		t.Fatalf("barrier submitted to %v", s.keys)
	}
}

func TestAwaitConsistency_CanceledContext(t *testing.T) {
	c, err := New("http://example.com", "", WithExecutor(&stubExec{}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.AwaitConsistency(ctx, "svc"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAwaitConsistency_DefaultExecutor(t *testing.T) {
	c, err := New("http://example.com", "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.AwaitConsistency(ctx, "svc"); err != nil {
		t.Fatalf("await: %v", err)
	}
}
