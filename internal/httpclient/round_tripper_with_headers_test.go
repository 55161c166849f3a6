package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewAddsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	client := New(map[string]string{
		"User-Agent": "explore-go",
		"X-Api-Key":  "secret",
	}, time.Second)

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("X-Api-Key", "override")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if got.Get("User-Agent") != "explore-go" {
		t.Errorf("User-Agent = %q", got.Get("User-Agent"))
	}
	if got.Get("X-Api-Key") != "override" {
		t.Errorf("request header was replaced: %q", got.Get("X-Api-Key"))
	}
	if req.Header.Get("User-Agent") != "" {
		t.Error("the caller's request should not be modified")
	}
}
