package providers

import (
	"context"
	"errors"
	"testing"

	"go_gizmo/internal/dns"
)

func TestRegisterAll(t *testing.T) {
	ctx := context.Background()
	reg := dns.NewRegistry(dns.Options{})

	if err := RegisterAll(reg); err != nil {
		t.Fatalf("RegisterAll() failed: %v", err)
	}

	for _, name := range []string{"porkbun", "cloudflare"} {
		p, err := reg.Resolve(ctx, name)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", name, err)
		}
		if p.Name() != name {
			t.Errorf("Resolve(%q).Name() = %q", name, p.Name())
		}
	}

	if _, err := reg.Resolve(ctx, "nonexistent"); !errors.Is(err, dns.ErrUnresolvable) {
		t.Errorf("Resolve(nonexistent) error = %v; want ErrUnresolvable", err)
	}

	if err := RegisterAll(reg); err == nil {
		t.Error("registering twice should fail")
	}
}
