package dns

import (
	"context"

	"go_gizmo/internal/dnstypes"
	"go_gizmo/internal/model"
)

// Provider is the contract every DNS vendor adapter implements.
// Records are addressed relative to the domain; adapters translate
// to and from their vendor's encoding.
//
// A failed provider call is always reported through the error; an
// empty, non-nil slice from ListRecords means the zone has no records.
type Provider interface {
	// Name returns the registry name of the adapter (porkbun, cloudflare, ...)
	Name() string

	// ListRecords returns every record of the domain in canonical form
	ListRecords(ctx context.Context, account *model.Account, domain *model.Domain) ([]dnstypes.Record, error)

	// CreateRecord creates record in the domain
	CreateRecord(ctx context.Context, account *model.Account, domain *model.Domain, record dnstypes.Record) (*Response, error)

	// UpdateRecord replaces the record identified by its type and name
	UpdateRecord(ctx context.Context, account *model.Account, domain *model.Domain, record dnstypes.Record) (*Response, error)

	// DeleteRecord removes the record identified by its type and name
	DeleteRecord(ctx context.Context, account *model.Account, domain *model.Domain, record dnstypes.Record) (*Response, error)
}

// Response is the decoded body of a successful provider call
type Response struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Data       map[string]any `json:"data,omitempty"`
}

// Unimplemented can be embedded by adapters under construction.
// Every operation fails with an *UnimplementedError naming it.
type Unimplemented struct {
	ProviderName string
}

func (u Unimplemented) Name() string {
	return u.ProviderName
}

func (u Unimplemented) ListRecords(context.Context, *model.Account, *model.Domain) ([]dnstypes.Record, error) {
	return nil, &UnimplementedError{Provider: u.ProviderName, Operation: "ListRecords"}
}

func (u Unimplemented) CreateRecord(context.Context, *model.Account, *model.Domain, dnstypes.Record) (*Response, error) {
	return nil, &UnimplementedError{Provider: u.ProviderName, Operation: "CreateRecord"}
}

func (u Unimplemented) UpdateRecord(context.Context, *model.Account, *model.Domain, dnstypes.Record) (*Response, error) {
	return nil, &UnimplementedError{Provider: u.ProviderName, Operation: "UpdateRecord"}
}

func (u Unimplemented) DeleteRecord(context.Context, *model.Account, *model.Domain, dnstypes.Record) (*Response, error) {
	return nil, &UnimplementedError{Provider: u.ProviderName, Operation: "DeleteRecord"}
}
