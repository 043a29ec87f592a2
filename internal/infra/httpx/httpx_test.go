package httpx

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestNewArchiveClient_SetsRandomUA(t *testing.T) {
	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, err := NewArchiveClient("")
	if err != nil {
		t.Fatalf("NewArchiveClient 失败：%v", err)
	}

	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("请求失败：%v", err)
	}
	_ = resp.Body.Close()

	ua, _ := gotUA.Load().(string)
	if ua == "" || ua == "Go-http-client/1.1" {
		t.Fatalf("UA 未被替换：%q", ua)
	}
}

func TestNewArchiveClient_InvalidProxy(t *testing.T) {
	if _, err := NewArchiveClient("://bad"); err == nil {
		t.Fatalf("期望非法 proxy.url 报错")
	}
}

func TestTransport_CallerUAWins(t *testing.T) {
	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, err := NewArchiveClient("")
	if err != nil {
		t.Fatalf("NewArchiveClient 失败：%v", err)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("User-Agent", "custom/1.0")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("请求失败：%v", err)
	}
	_ = resp.Body.Close()

	if ua, _ := gotUA.Load().(string); ua != "custom/1.0" {
		t.Fatalf("调用方显式设置的 UA 被覆盖：%q", ua)
	}
}
