package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTMX_RequestDetection(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.Header.Set("Hx-Request", "true")
	if !IsHTMX(r) {
		t.Fatal("expected IsHTMX true")
	}
	if !WantsPartial(r) {
		t.Fatal("htmx request should want partial")
	}
	r.Header.Set("Hx-History-Restore-Request", "true")
	if WantsPartial(r) {
		t.Fatal("history restore needs the full page")
	}

	r2 := httptest.NewRequest(http.MethodGet, "/x", nil)
	if IsHTMX(r2) || WantsPartial(r2) {
		t.Fatal("expected defaults to false")
	}
}

func TestHTMX_ResponseHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SetHXRedirect(rr, "/sign-in")
	SetHXTrigger(rr, "toasts", map[string]any{"count": 2})
	res := rr.Result()
	t.Cleanup(func() { _ = res.Body.Close() })
	if got := res.Header.Get("Hx-Redirect"); got != "/sign-in" {
		t.Fatalf("HX-Redirect: %q", got)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(res.Header.Get("Hx-Trigger")), &payload); err != nil {
		t.Fatalf("unmarshal trigger: %v", err)
	}
	if _, ok := payload["toasts"]; !ok {
		t.Fatalf("expected 'toasts' key in HX-Trigger: %v", payload)
	}
}

func TestRedirect(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rr := httptest.NewRecorder()
	redirect(rr, r, "/staff")
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/staff" {
		t.Fatalf("plain redirect: %d %q", rr.Code, rr.Header().Get("Location"))
	}

	r.Header.Set("Hx-Request", "true")
	rr = httptest.NewRecorder()
	redirect(rr, r, "/staff")
	if rr.Code != http.StatusNoContent || rr.Header().Get("Hx-Redirect") != "/staff" {
		t.Fatalf("htmx redirect: %d %q", rr.Code, rr.Header().Get("Hx-Redirect"))
	}
}
