package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/molcanon/internal/testmol"
	"github.com/matzehuels/molcanon/pkg/molfile"
	"github.com/matzehuels/molcanon/pkg/observability"
	"github.com/matzehuels/molcanon/pkg/pipeline"
	"github.com/matzehuels/molcanon/pkg/registry"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestServer(t *testing.T, store registry.Store, metrics *Metrics) *httptest.Server {
	t.Helper()
	srv := New(pipeline.NewRunner(nil, nil, quietLogger()), store, quietLogger(), Options{Metrics: metrics})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func molfileText(t *testing.T, m testmol.Molecule) string {
	t.Helper()
	var buf bytes.Buffer
	if err := molfile.Write(&buf, m.Graph(), m.Name); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	resp := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestRequestIDPropagates(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/nope", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q", got)
	}
	body := decode[errorBody](t, resp)
	if body.Error.RequestID != "abc-123" || body.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v", body.Error)
	}
}

func TestCanonicalizeJSON(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	for _, m := range []testmol.Molecule{testmol.Water, testmol.Ethanol, testmol.Benzene} {
		t.Run(m.Name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/v1/canonicalize", CanonicalizeRequest{
				Name:    m.Name,
				Molfile: molfileText(t, m),
			})
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			res := decode[pipeline.Result](t, resp)
			if res.Key != m.Canonical {
				t.Errorf("key = %s, want %s", res.Key, m.Canonical)
			}
			if res.Name != m.Name {
				t.Errorf("name = %q", res.Name)
			}
		})
	}
}

func TestCanonicalizeRaw(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	m := testmol.DimethylEther
	q := url.Values{"permute_seed": {"7"}, "priorities": {"lt,gt,eq"}, "name": {"ether"}}
	resp, err := http.Post(ts.URL+"/v1/canonicalize?"+q.Encode(), "chemical/x-mdl-molfile", strings.NewReader(molfileText(t, m)))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	res := decode[pipeline.Result](t, resp)
	if res.Key != m.Canonical {
		t.Errorf("key = %s, want %s", res.Key, m.Canonical)
	}
	if res.Name != "ether" {
		t.Errorf("name = %q", res.Name)
	}
}

func TestCanonicalizeErrors(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	water := molfileText(t, testmol.Water)
	tests := []struct {
		name   string
		ctype  string
		query  string
		body   string
		status int
		code   string
	}{
		{"empty", "text/plain", "", "", 400, "INVALID_INPUT"},
		{"garbage", "text/plain", "", "not a molfile", 400, "INVALID_MOLFILE"},
		{"bad root", "text/plain", "?root=x", water, 400, "INVALID_INPUT"},
		{"root out of range", "text/plain", "?root=9", water, 400, "INVALID_INPUT"},
		{"negative seed", "text/plain", "?permute_seed=-1", water, 400, "INVALID_INPUT"},
		{"bad priorities", "text/plain", "?priorities=lt,lt,eq", water, 400, "INVALID_INPUT"},
		{"bad json", "application/json", "", "{", 400, "INVALID_INPUT"},
		{"unknown field", "application/json", "", `{"molfil":"x"}`, 400, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/v1/canonicalize"+tt.query, tt.ctype, strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decode[errorBody](t, resp)
			if body.Error.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", body.Error.Code, tt.code, body.Error.Message)
			}
		})
	}
}

func TestBatch(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	resp := postJSON(t, ts.URL+"/v1/batch", BatchRequest{Molecules: []CanonicalizeRequest{
		{Name: "a", Molfile: molfileText(t, testmol.Ethanol)},
		{Name: "b", Molfile: "junk"},
		{Name: "c", Molfile: molfileText(t, testmol.Ethanol)},
	}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	out := decode[BatchResponse](t, resp)
	if len(out.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(out.Results))
	}
	if out.Results[0].Result == nil || out.Results[0].Result.Key != testmol.Ethanol.Canonical {
		t.Errorf("results[0] = %+v", out.Results[0])
	}
	if out.Results[1].Error == nil || out.Results[1].Error.Code != "INVALID_MOLFILE" {
		t.Errorf("results[1] = %+v", out.Results[1])
	}
	if len(out.Duplicates) != 1 || len(out.Duplicates[0].Members) != 2 {
		t.Errorf("duplicates = %+v", out.Duplicates)
	}
}

func TestBatchEmpty(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	resp := postJSON(t, ts.URL+"/v1/batch", BatchRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRegistryFlow(t *testing.T) {
	ts := newTestServer(t, registry.NewMemoryStore(), nil)
	water := molfileText(t, testmol.Water)

	first := postJSON(t, ts.URL+"/v1/registry", CanonicalizeRequest{Name: "water", Molfile: water, Source: "test"})
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("first register status = %d, want 201", first.StatusCode)
	}
	created := decode[RegisterResponse](t, first)
	if !created.Created || created.Entry.Key != testmol.Water.Canonical || created.Entry.ID == "" {
		t.Errorf("register = %+v", created)
	}

	// same molecule, different input order
	second := postJSON(t, ts.URL+"/v1/registry", CanonicalizeRequest{Name: "again", Molfile: water, PermuteSeed: ptr(int64(3))})
	if second.StatusCode != http.StatusOK {
		t.Fatalf("second register status = %d, want 200", second.StatusCode)
	}
	again := decode[RegisterResponse](t, second)
	if again.Created || again.Entry.ID != created.Entry.ID || again.Entry.Name != "water" {
		t.Errorf("re-register = %+v", again)
	}

	postJSON(t, ts.URL+"/v1/registry", CanonicalizeRequest{Name: "methane", Molfile: molfileText(t, testmol.Methane)})

	found := get(t, ts.URL+"/v1/registry?key="+url.QueryEscape(testmol.Water.Canonical))
	if found.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", found.StatusCode)
	}
	if e := decode[registry.Entry](t, found); e.ID != created.Entry.ID {
		t.Errorf("get = %+v", e)
	}

	missing := get(t, ts.URL+"/v1/registry?key="+url.QueryEscape(testmol.Ammonia.Canonical))
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("missing key status = %d, want 404", missing.StatusCode)
	}

	bad := get(t, ts.URL+"/v1/registry?key=nonsense")
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed key status = %d, want 400", bad.StatusCode)
	}

	huge := get(t, ts.URL+"/v1/registry?key=H20000000")
	if huge.StatusCode != http.StatusBadRequest {
		t.Errorf("oversized key status = %d, want 400", huge.StatusCode)
	}

	list := decode[map[string][]registry.Entry](t, get(t, ts.URL+"/v1/registry"))
	if len(list["entries"]) != 2 || list["entries"][0].Formula != "CH4" {
		t.Errorf("list = %+v", list)
	}

	count := decode[map[string]int](t, get(t, ts.URL+"/v1/registry/count"))
	if count["count"] != 2 {
		t.Errorf("count = %v, want 2", count)
	}
}

func TestRegistryDisabled(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	resp := get(t, ts.URL+"/v1/registry/count")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	if body := decode[errorBody](t, resp); body.Error.Code != "UNSUPPORTED" {
		t.Errorf("code = %s", body.Error.Code)
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.Install()
	t.Cleanup(observability.Reset)
	ts := newTestServer(t, nil, m)

	postJSON(t, ts.URL+"/v1/canonicalize", CanonicalizeRequest{Molfile: molfileText(t, testmol.Water)})
	postJSON(t, ts.URL+"/v1/canonicalize", CanonicalizeRequest{Molfile: "junk"})

	if got := testutil.ToFloat64(m.canonicalized.WithLabelValues("ok")); got != 1 {
		t.Errorf("canonicalize_total{ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.parses.WithLabelValues("molfile", "error")); got != 1 {
		t.Errorf("parse_total{molfile,error} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("/v1/canonicalize", "POST", "400")); got != 1 {
		t.Errorf("http_requests_total{400} = %v, want 1", got)
	}

	resp := get(t, ts.URL+"/metrics")
	data, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"molcanon_canonicalize_total", "molcanon_http_requests_total", "go_goroutines"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("/metrics is missing %s", want)
		}
	}
}

func ptr[T any](v T) *T { return &v }
