// Package providers holds the registration table of every DNS adapter.
package providers

import (
	"fmt"

	"go_gizmo/internal/dns"
	"go_gizmo/internal/dns/providers/cloudflare"
	"go_gizmo/internal/dns/providers/porkbun"
)

// Table maps provider names to adapter factories
var Table = map[string]dns.Factory{
	porkbun.Name:    porkbun.Factory,
	cloudflare.Name: cloudflare.Factory,
}

// RegisterAll registers every adapter of Table with reg
func RegisterAll(reg *dns.Registry) error {
	for name, factory := range Table {
		if err := reg.Register(name, factory); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
	}
	return nil
}
