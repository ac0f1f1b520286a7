package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

func TestHTTPProber_StatusOK(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != userAgent {
			t.Errorf("unexpected user agent %q", ua)
		}
		w.WriteHeader(200)
		w.Write([]byte("ok"))
	}))
	defer s.Close()

	p := NewHTTPProber(2 * time.Second)
	out := p.Probe(context.Background(), s.URL)
	if !out.Reachable {
		t.Fatalf("want reachable, got %+v", out)
	}
	if out.StatusCode != 200 {
		t.Fatalf("want status 200, got %d", out.StatusCode)
	}
	if out.Err != "" {
		t.Fatalf("want empty error, got %q", out.Err)
	}
}

func TestHTTPProber_Status500KeepsCode(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", 500)
	}))
	defer s.Close()

	p := NewHTTPProber(2 * time.Second)
	out := p.Probe(context.Background(), s.URL)
	if out.Reachable {
		t.Fatalf("want down, got %+v", out)
	}
	if out.StatusCode != 500 {
		t.Fatalf("want status 500, got %d", out.StatusCode)
	}
	if out.Err == "" {
		t.Fatal("want non-empty error description")
	}
}

func TestHTTPProber_3xxWithoutLocationIsDown(t *testing.T) {
	// A redirect the client cannot follow ends on the 3xx itself.
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(304)
	}))
	defer s.Close()

	p := NewHTTPProber(2 * time.Second)
	out := p.Probe(context.Background(), s.URL)
	if out.Reachable {
		t.Fatalf("want down on 304, got %+v", out)
	}
	if out.StatusCode != 304 {
		t.Fatalf("want status 304, got %d", out.StatusCode)
	}
}

func TestHTTPProber_FollowsRedirectToOK(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer final.Close()
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusFound)
	}))
	defer s.Close()

	p := NewHTTPProber(2 * time.Second)
	out := p.Probe(context.Background(), s.URL)
	if !out.Reachable || out.StatusCode != 200 {
		t.Fatalf("want redirect followed to 200, got %+v", out)
	}
}

func TestHTTPProber_TimeoutSetsStatusZero(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	p := NewHTTPProber(50 * time.Millisecond)
	out := p.Probe(context.Background(), s.URL)
	if out.Reachable {
		t.Fatalf("want failure due to timeout, got %+v", out)
	}
	if out.StatusCode != 0 {
		t.Fatalf("want status 0 on transport error, got %d", out.StatusCode)
	}
	if out.Err == "" {
		t.Fatal("want non-empty error message")
	}
}

func TestHTTPProber_NormalizesSchemelessTarget(t *testing.T) {
	t.Parallel()

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "https://example.com",
		httpmock.NewStringResponder(200, "ok"))

	p := NewHTTPProber(time.Second)
	p.Client = &http.Client{Transport: transport}

	out := p.Probe(context.Background(), "example.com")
	assert.True(t, out.Reachable)
	assert.Equal(t, 200, out.StatusCode)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "https://example.com", Normalize("example.com"))
	assert.Equal(t, "http://example.com", Normalize("http://example.com"))
	assert.Equal(t, "https://example.com", Normalize("https://example.com"))
}
