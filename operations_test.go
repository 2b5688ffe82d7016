package dvelop

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/d-velop/dvelop-sdk-go/internal/shardqueue"
)

// dmsHandler serves a small HAL graph under /dms.
func dmsHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/dms":
			writeHAL(w, `{"_links":{
				"allrepos":{"href":"/dms/r"},
				"repo":{"href":"/dms/r/{repositoryid}"}}}`)
		case r.URL.Path == "/dms/r":
			writeHAL(w, `{"repositories":[{"id":"r1","name":"Main"},{"id":"r2","name":"Archive"}]}`)
		case r.URL.Path == "/dms/r/r1":
			writeHAL(w, `{"id":"r1","name":"Main","_links":{
				"dmsobjectwithmapping":{"href":"/dms/r/r1/o2m/{dmsobjectid}{?sourceid}"},
				"searchresultbyquery":{"href":"/dms/r/r1/srm{?sourceid,fulltext,sourcecategories,page,pagesize}"}}}`)
		case r.URL.Path == "/dms/r/r1/o2m" && r.Method == http.MethodPost:
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode create body: %v", err)
			}
			if body["sourceCategory"] != "invoice" {
				t.Errorf("create body = %v", body)
			}
			w.Header().Set("Location", "/dms/r/r1/o2m/new-1")
			w.WriteHeader(http.StatusCreated)
		case r.URL.Path == "/dms/r/r1/o2m/o1":
			if r.URL.Query().Get("sourceid") != "/dms/r/r1/source" {
				t.Errorf("sourceid = %q", r.URL.Query().Get("sourceid"))
			}
			writeHAL(w, `{"id":"o1","sourceCategories":["invoice"],"_links":{"notes":{"href":"/dms/r/r1/o/o1/n"}}}`)
		case r.URL.Path == "/dms/r/r1/o/o1/n":
			writeHAL(w, `{"notes":[{"text":"checked","creator":{"id":"u1"},"created":"2026-10-01T08:00:00Z"}]}`)
		case r.URL.Path == "/dms/r/r1/srm":
			if r.URL.Query().Get("page") == "2" {
				writeHAL(w, `{"page":2,"items":[{"id":"o3"}]}`)
				return
			}
			if got := r.URL.Query().Get("sourcecategories"); got != `["invoice"]` {
				t.Errorf("sourcecategories = %q", got)
			}
			writeHAL(w, `{"page":1,"items":[{"id":"o1"},{"id":"o2"}],
				"_links":{"next":{"href":"/dms/r/r1/srm?page=2"}}}`)
		default:
			http.NotFound(w, r)
		}
	}
}

func TestDms_Repositories(t *testing.T) {
	c := newTestClient(t, dmsHandler(t))
	ctx := context.Background()

	repos, err := c.GetRepositories(ctx)
	if err != nil {
		t.Fatalf("get repositories: %v", err)
	}
	if len(repos) != 2 || repos[1].Name != "Archive" {
		t.Fatalf("repositories = %+v", repos)
	}

	repo, err := c.GetRepository(ctx, "r1")
	if err != nil {
		t.Fatalf("get repository: %v", err)
	}
	if repo.ID != "r1" || !repo.Links.Has("searchresultbyquery") {
		t.Fatalf("repository = %+v", repo)
	}

	if _, err := c.GetRepository(ctx, ""); err == nil {
		t.Fatalf("expected validation error for empty repository id")
	}
}

func TestDms_ObjectsAndNotes(t *testing.T) {
	c := newTestClient(t, dmsHandler(t))
	ctx := context.Background()
	params := GetDmsObjectParams{RepositoryID: "r1", SourceID: "/dms/r/r1/source", DmsObjectID: "o1"}

	obj, err := c.GetDmsObject(ctx, params)
	if err != nil {
		t.Fatalf("get dms object: %v", err)
	}
	if obj.ID != "o1" || len(obj.SourceCategories) != 1 {
		t.Fatalf("object = %+v", obj)
	}

	notes, err := c.GetDmsObjectNotes(ctx, params)
	if err != nil {
		t.Fatalf("get notes: %v", err)
	}
	if len(notes) != 1 || notes[0].Text != "checked" {
		t.Fatalf("notes = %+v", notes)
	}

	loc, err := c.CreateDmsObject(ctx, CreateDmsObjectParams{
		RepositoryID:   "r1",
		SourceID:       "/dms/r/r1/source",
		SourceCategory: "invoice",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if loc != "/dms/r/r1/o2m/new-1" {
		t.Fatalf("location = %q", loc)
	}
}

func TestDms_SearchPaging(t *testing.T) {
	c := newTestClient(t, dmsHandler(t))
	ctx := context.Background()

	page, err := c.SearchDmsObjects(ctx, SearchDmsObjectsParams{
		RepositoryID: "r1",
		SourceID:     "/dms/r/r1/source",
		Categories:   []string{"invoice"},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(page.Items) != 2 || page.Next == nil {
		t.Fatalf("first page = %+v", page)
	}

	next, err := page.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(next.Items) != 1 || next.Items[0].ID != "o3" {
		t.Fatalf("second page = %+v", next)
	}
	if next.Next != nil {
		t.Fatalf("last page must not have Next")
	}
}

func TestTasks_Lifecycle(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path+" "+strings.TrimSpace(string(body)))
		mu.Unlock()

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/task/tasks":
			w.Header().Set("Location", "/task/tasks/t1")
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodGet && r.URL.Path == "/task/tasks/t1":
			writeHAL(w, `{"id":"t1","subject":"Review","assignees":["u1"]}`)
		case r.Method == http.MethodGet && r.URL.Path == "/task/tasks":
			writeHAL(w, `{"tasks":[{"id":"t1","subject":"Review","assignees":["u1"]}]}`)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	loc, err := c.CreateTask(ctx, CreateTaskParams{
		Subject:    "Review",
		Assignees:  []string{"u1"},
		DetailsURI: "https://example.com/details",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if loc != "/task/tasks/t1" {
		t.Fatalf("location = %q", loc)
	}

	task, err := c.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.Subject != "Review" {
		t.Fatalf("task = %+v", task)
	}

	subject := "Review again"
	if err := c.UpdateTask(ctx, "t1", UpdateTaskParams{Subject: &subject}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := c.CompleteTask(ctx, "t1"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := c.DeleteTask(ctx, "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	page, err := c.ListTasks(ctx, ListTasksParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 || page.Next != nil {
		t.Fatalf("page = %+v", page)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{
		`POST /task/tasks {"subject":"Review","assignees":["u1"],"_links":{"details":{"href":"https://example.com/details"}}}`,
		"GET /task/tasks/t1 ",
		`PATCH /task/tasks/t1 {"subject":"Review again"}`,
		`POST /task/tasks/t1/completionState {"complete":true}`,
		"DELETE /task/tasks/t1 ",
		"GET /task/tasks ",
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestTasks_ValidationFailsBeforeSending(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})
	if _, err := c.CreateTask(context.Background(), CreateTaskParams{Assignees: []string{"u1"}}); err == nil {
		t.Fatalf("expected error for missing subject")
	}
	if _, err := c.GetTask(context.Background(), " "); err == nil {
		t.Fatalf("expected error for blank task id")
	}
}

type invoice struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
}

func TestBusinessObjects(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			if strings.HasSuffix(r.URL.Path, "invoices") {
				writeHAL(w, `{"value":[{"id":"1","amount":10},{"id":"2","amount":20}]}`)
				return
			}
			writeHAL(w, `{"id":"1","amount":10}`)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()
	params := BoEntityParams{ModelName: "acme", PluralEntityName: "invoices", Key: "1"}

	one, err := GetBoEntity[invoice](ctx, c, params)
	if err != nil {
		t.Fatalf("get entity: %v", err)
	}
	if one.Amount != 10 {
		t.Fatalf("entity = %+v", one)
	}

	all, err := GetBoEntities[invoice](ctx, c, BoEntityParams{ModelName: "acme", PluralEntityName: "invoices"})
	if err != nil {
		t.Fatalf("get entities: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("entities = %+v", all)
	}

	if err := c.CreateBoEntity(ctx, BoEntityParams{ModelName: "acme", PluralEntityName: "invoices"}, invoice{ID: "3"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := c.UpdateBoEntity(ctx, params, map[string]any{"amount": 11}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := c.DeleteBoEntity(ctx, params); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := c.DeleteBoEntity(ctx, BoEntityParams{ModelName: "acme", PluralEntityName: "invoices"}); err == nil {
		t.Fatalf("expected error for missing key")
	}

	if len(paths) != 5 || paths[0] != "GET /businessobjects/custom/acme/invoices('1')" {
		t.Fatalf("paths = %v", paths)
	}
}

func TestIdentity_Impersonation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/identityprovider/impersonate/session" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer app-token" || r.Header.Get("X-Request-Id") != "req-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeHAL(w, `{"authSessionId":"impersonated"}`)
	})

	id, err := c.GetImpersonatedAuthSessionID(context.Background(), "app-token", "req-1")
	if err != nil {
		t.Fatalf("impersonate: %v", err)
	}
	if id != "impersonated" {
		t.Fatalf("session = %q", id)
	}

	_, err = c.GetImpersonatedAuthSessionID(context.Background(), "other", "req-1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestIdentity_ValidateOtherSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer incoming" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeHAL(w, `{"id":"u2","displayName":"Jo"}`)
	})
	u, err := c.ValidateAuthSessionIDFor(context.Background(), "incoming")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if u.ID != "u2" {
		t.Fatalf("user = %+v", u)
	}
}

func TestGetLoginRedirectionURI(t *testing.T) {
	got := GetLoginRedirectionURI("/myapp/page?x=1")
	if got != "/identityprovider/login?redirect=%2Fmyapp%2Fpage%3Fx%3D1" {
		t.Fatalf("uri = %q", got)
	}
}

func TestLogging_IngestSync(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logging/ingest" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	})

	err := c.IngestLogEvents(context.Background(), "billing", []LogEvent{{
		Time:     time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
		Severity: SeverityInfo,
		Body:     "invoice booked",
	}})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	res, _ := got["resource"].(map[string]any)
	if res["svc"] != "billing" {
		t.Fatalf("payload = %v", got)
	}

	if err := c.IngestLogEvents(context.Background(), "billing", nil); err == nil {
		t.Fatalf("expected error for empty batch")
	}
}

func TestLogging_AsyncDelivery(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Logs []LogEvent `json:"logs"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		for _, ev := range req.Logs {
			bodies = append(bodies, ev.Body)
		}
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	ctx := context.Background()

	for _, msg := range []string{"one", "two", "three"} {
		ack, err := c.Log(ctx, "billing", LogEvent{Severity: SeverityInfo, Body: msg})
		if err != nil {
			t.Fatalf("log %q: %v", msg, err)
		}
		if ack.EventID == "" || ack.Status != "enqueued" {
			t.Fatalf("ack = %+v", ack)
		}
	}
	if err := c.AwaitConsistency(ctx, "billing"); err != nil {
		t.Fatalf("await: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if strings.Join(bodies, ",") != "one,two,three" {
		t.Fatalf("delivered = %v", bodies)
	}
}

func TestLogging_BackPressure(t *testing.T) {
	s := &stubExec{err: shardqueue.ErrQueueFull}
	c, err := New("http://example.com", "", WithExecutor(s))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = c.Log(context.Background(), "billing", LogEvent{Severity: SeverityWarn, Body: "x"})
	if !IsBackPressure(err) {
		t.Fatalf("expected back pressure, got %v", err)
	}
}

func TestLogging_InvalidEventRejected(t *testing.T) {
	s := &stubExec{}
	c, err := New("http://example.com", "", WithExecutor(s))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := c.Log(context.Background(), "billing", LogEvent{Severity: SeverityInfo}); err == nil {
		t.Fatalf("expected error for missing body")
	}
	if _, err := c.Log(context.Background(), "", LogEvent{Severity: SeverityInfo, Body: "x"}); err == nil {
		t.Fatalf("expected error for missing source")
	}
	if len(s.keys) != 0 {
		t.Fatalf("invalid events must not be submitted: %v", s.keys)
	}
}
