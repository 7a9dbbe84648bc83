package devauth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/target/bizportal/internal/ports"
)

func TestProvider_BeginAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{UserID: "dev-user", Email: "dev@example.com", Groups: []string{"portal-staff"}})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	url, state, nonce, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}
	if !strings.HasPrefix(url, "/auth/callback?") || !strings.Contains(url, "state="+state) {
		t.Fatalf("unexpected authURL: %s", url)
	}
	if state == "" || nonce == "" || state == nonce {
		t.Fatal("state and nonce should be generated and distinct")
	}
	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if id.UserID != "dev-user" || id.Email != "dev@example.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if id.FirstName != "Dev" || id.LastName != "dev" {
		t.Fatalf("unexpected default names: %q %q", id.FirstName, id.LastName)
	}
	if len(id.Groups) != 1 || id.Groups[0] != "portal-staff" {
		t.Fatalf("unexpected groups: %v", id.Groups)
	}
}

func TestProvider_ExchangeRefreshesExpiry(t *testing.T) {
	prov, err := NewProvider(Config{UserID: "u", Email: "u@example.com", SessionDuration: time.Hour})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	prov.now = func() time.Time { return base }

	id, _ := prov.Exchange(context.Background(), ports.ExchangeInput{})
	if !id.ExpiresAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("ExpiresAt = %v", id.ExpiresAt)
	}
}

func TestNewProvider_Validation(t *testing.T) {
	if _, err := NewProvider(Config{Email: "x@example.com"}); err == nil {
		t.Fatal("expected error for missing UserID")
	}
	if _, err := NewProvider(Config{UserID: "x"}); err == nil {
		t.Fatal("expected error for missing Email")
	}
}
