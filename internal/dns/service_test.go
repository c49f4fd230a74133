package dns

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"gorm.io/gorm"

	"go_gizmo/internal/dns/dnstest"
	"go_gizmo/internal/dnstypes"
	"go_gizmo/internal/model"
)

var _ Store = (*dnstest.MemStore)(nil)

func recordFixture() dnstypes.Record {
	return dnstypes.Record{Name: "www", Type: "A", Value: "1.2.3.4", TTL: 600}
}

// memCache is an in-memory ListCache
type memCache struct {
	entries     map[int][]dnstypes.Record
	invalidated []int
}

func (c *memCache) Get(_ context.Context, domainID int) ([]dnstypes.Record, bool) {
	r, ok := c.entries[domainID]
	return r, ok
}

func (c *memCache) Set(_ context.Context, domainID int, records []dnstypes.Record) {
	c.entries[domainID] = records
}

func (c *memCache) Invalidate(_ context.Context, domainID int) {
	delete(c.entries, domainID)
	c.invalidated = append(c.invalidated, domainID)
}

// recordingProvider remembers the calls it received
type recordingProvider struct {
	listed  []dnstypes.Record
	listErr error
	pushErr error
	calls   []string
	last    dnstypes.Record
	account *model.Account
	domain  *model.Domain
}

func (p *recordingProvider) Name() string { return "fake" }

func (p *recordingProvider) ListRecords(_ context.Context, account *model.Account, domain *model.Domain) ([]dnstypes.Record, error) {
	p.calls = append(p.calls, "list")
	p.account, p.domain = account, domain
	return p.listed, p.listErr
}

func (p *recordingProvider) push(op string, account *model.Account, domain *model.Domain, record dnstypes.Record) (*Response, error) {
	p.calls = append(p.calls, op)
	p.account, p.domain, p.last = account, domain, record
	if p.pushErr != nil {
		return nil, p.pushErr
	}
	return &Response{StatusCode: http.StatusOK, Status: "SUCCESS", Data: map[string]any{"status": "SUCCESS"}}, nil
}

func (p *recordingProvider) CreateRecord(_ context.Context, a *model.Account, d *model.Domain, r dnstypes.Record) (*Response, error) {
	return p.push("create", a, d, r)
}

func (p *recordingProvider) UpdateRecord(_ context.Context, a *model.Account, d *model.Domain, r dnstypes.Record) (*Response, error) {
	return p.push("update", a, d, r)
}

func (p *recordingProvider) DeleteRecord(_ context.Context, a *model.Account, d *model.Domain, r dnstypes.Record) (*Response, error) {
	return p.push("delete", a, d, r)
}

func newTestService(t *testing.T, p *recordingProvider) (*Service, *dnstest.MemStore, *memCache) {
	t.Helper()
	reg := NewRegistry(Options{})
	if err := reg.Register("fake", func(FactoryConfig) (Provider, error) { return p, nil }); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	store := dnstest.Fixture()
	cache := &memCache{entries: map[int][]dnstypes.Record{}}
	return NewService(store, reg, cache, nil), store, cache
}

func TestServiceListRecords(t *testing.T) {
	p := &recordingProvider{listed: []dnstypes.Record{recordFixture()}}
	svc, _, cache := newTestService(t, p)
	ctx := context.Background()

	got, err := svc.ListRecords(ctx, 1)
	if err != nil {
		t.Fatalf("ListRecords() failed: %v", err)
	}
	if diff := cmp.Diff([]dnstypes.Record{recordFixture()}, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if p.account.APIKey != "k1" || p.domain.Domain != "example.com" {
		t.Errorf("provider received account %+v, domain %+v", p.account, p.domain)
	}

	// second call is served from cache
	if _, err := svc.ListRecords(ctx, 1); err != nil {
		t.Fatalf("ListRecords() failed: %v", err)
	}
	if len(p.calls) != 1 {
		t.Errorf("provider called %d times; want 1", len(p.calls))
	}
	if _, ok := cache.entries[1]; !ok {
		t.Error("listing was not cached")
	}
}

func TestServiceListRecordsEmptyIsNotFailure(t *testing.T) {
	p := &recordingProvider{}
	svc, _, _ := newTestService(t, p)

	got, err := svc.ListRecords(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListRecords() failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("ListRecords() = %#v; want empty non-nil slice", got)
	}
}

func TestServiceListRecordsFailureIsDistinct(t *testing.T) {
	p := &recordingProvider{listErr: &CallError{Provider: "fake", Operation: "list", StatusCode: http.StatusNotFound}}
	svc, _, cache := newTestService(t, p)

	got, err := svc.ListRecords(context.Background(), 1)
	if got != nil {
		t.Errorf("ListRecords() = %v; want nil", got)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ListRecords() error = %v; want ErrNotFound", err)
	}
	if _, ok := cache.entries[1]; ok {
		t.Error("failed listing must not be cached")
	}
}

func TestServiceListRecordsUnknownDomain(t *testing.T) {
	svc, _, _ := newTestService(t, &recordingProvider{})

	_, err := svc.ListRecords(context.Background(), 404)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("error = %v; want gorm.ErrRecordNotFound", err)
	}
}

func TestServicePushOperations(t *testing.T) {
	for _, op := range []model.SyncOperation{model.SyncOperationCreate, model.SyncOperationUpdate, model.SyncOperationDelete} {
		t.Run(string(op), func(t *testing.T) {
			p := &recordingProvider{}
			svc, store, cache := newTestService(t, p)

			resp, err := svc.Push(context.Background(), 10, op)
			if err != nil {
				t.Fatalf("Push(%s) failed: %v", op, err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Errorf("status = %d", resp.StatusCode)
			}
			if diff := cmp.Diff([]string{string(op)}, p.calls); diff != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", diff)
			}
			if !p.last.Equal(recordFixture()) {
				t.Errorf("provider received %+v; want %+v", p.last, recordFixture())
			}
			if len(cache.invalidated) != 1 || cache.invalidated[0] != 1 {
				t.Errorf("cache invalidations = %v; want [1]", cache.invalidated)
			}

			if len(store.Logs) != 1 {
				t.Fatalf("sync logs = %d; want 1", len(store.Logs))
			}
			entry := store.Logs[0]
			if !entry.OK || entry.Operation != op || entry.DNSRecordID == nil || *entry.DNSRecordID != 10 {
				t.Errorf("unexpected sync log: %+v", entry)
			}
			if string(entry.Response) != `{"status":"SUCCESS"}` {
				t.Errorf("sync log response = %s", entry.Response)
			}
		})
	}
}

func TestServicePushUnsupportedOperation(t *testing.T) {
	svc, _, _ := newTestService(t, &recordingProvider{})
	if _, err := svc.Push(context.Background(), 10, model.SyncOperationPull); err == nil {
		t.Fatal("Push(pull) should fail")
	}
}

func TestServicePushFailureIsLogged(t *testing.T) {
	p := &recordingProvider{pushErr: &CallError{Provider: "fake", Operation: "create", StatusCode: http.StatusBadRequest, Message: "Invalid API key."}}
	svc, store, _ := newTestService(t, p)

	resp, err := svc.CreateRecord(context.Background(), 10)
	if resp != nil {
		t.Errorf("response = %+v; want nil", resp)
	}
	if StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("error = %v; want status 400", err)
	}

	if len(store.Logs) != 1 {
		t.Fatalf("sync logs = %d; want 1", len(store.Logs))
	}
	if store.Logs[0].OK || store.Logs[0].StatusCode != http.StatusBadRequest {
		t.Errorf("unexpected sync log: %+v", store.Logs[0])
	}
}

func TestServiceInactiveRecord(t *testing.T) {
	p := &recordingProvider{}
	svc, _, _ := newTestService(t, p)
	ctx := context.Background()

	if _, err := svc.CreateRecord(ctx, 11); !errors.Is(err, ErrRecordInactive) {
		t.Fatalf("CreateRecord(inactive) error = %v; want ErrRecordInactive", err)
	}
	if _, err := svc.UpdateRecord(ctx, 11); !errors.Is(err, ErrRecordInactive) {
		t.Fatalf("UpdateRecord(inactive) error = %v; want ErrRecordInactive", err)
	}
	if len(p.calls) != 0 {
		t.Fatalf("provider was called: %v", p.calls)
	}

	// deleting an inactive record is allowed
	if _, err := svc.DeleteRecord(ctx, 11); err != nil {
		t.Fatalf("DeleteRecord(inactive) failed: %v", err)
	}
}

func TestServiceUnresolvableProvider(t *testing.T) {
	p := &recordingProvider{}
	svc, store, _ := newTestService(t, p)
	store.Records[10].Domain.Account.Provider.Name = "nonexistent"
	store.Domains[1].Account.Provider.Name = "nonexistent"
	ctx := context.Background()

	if _, err := svc.CreateRecord(ctx, 10); !errors.Is(err, ErrUnresolvable) {
		t.Fatalf("CreateRecord() error = %v; want ErrUnresolvable", err)
	}
	if _, err := svc.ListRecords(ctx, 1); !errors.Is(err, ErrUnresolvable) {
		t.Fatalf("ListRecords() error = %v; want ErrUnresolvable", err)
	}
	if len(p.calls) != 0 {
		t.Fatalf("provider was called: %v", p.calls)
	}
}

func TestServiceAccountDomains(t *testing.T) {
	svc, _, _ := newTestService(t, &recordingProvider{})
	ctx := context.Background()

	domains, err := svc.AccountDomains(ctx, 1)
	if err != nil {
		t.Fatalf("AccountDomains() failed: %v", err)
	}
	if len(domains) != 1 || domains[0].Domain != "example.com" {
		t.Errorf("AccountDomains() = %+v", domains)
	}

	if _, err := svc.AccountDomains(ctx, 2); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("AccountDomains(2) error = %v; want gorm.ErrRecordNotFound", err)
	}
}

func TestServicePullRecords(t *testing.T) {
	p := &recordingProvider{listed: []dnstypes.Record{
		{Name: "www", Type: "A", Value: "1.2.3.4", TTL: 300},                                     // existing, ttl changed
		{Name: "", Type: "MX", Value: "mx.example.com", TTL: 600, Priority: dnstypes.IntPtr(10)}, // new
		{Name: "_dmarc", Type: "TXT", Value: "v=DMARC1", TTL: 600},                               // type unknown locally
	}}
	svc, store, cache := newTestService(t, p)
	cache.entries[1] = []dnstypes.Record{}

	result, err := svc.PullRecords(context.Background(), 1)
	if err != nil {
		t.Fatalf("PullRecords() failed: %v", err)
	}

	want := &PullSyncResult{Fetched: 3, Created: 1, Updated: 1, Skipped: 1}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if len(p.calls) != 1 {
		t.Errorf("pull must bypass the cache; provider calls = %v", p.calls)
	}
	if store.Records[10].TTL != 300 {
		t.Errorf("existing record ttl = %d; want 300", store.Records[10].TTL)
	}

	mx, err := store.FindRecord(context.Background(), 1, 2, dnstypes.Record{Name: "", Value: "mx.example.com", Priority: dnstypes.IntPtr(10)})
	if err != nil {
		t.Fatalf("pulled MX record not stored: %v", err)
	}
	if !mx.IsActive {
		t.Error("pulled records should be active")
	}

	last := store.Logs[len(store.Logs)-1]
	if last.Operation != model.SyncOperationPull || !last.OK {
		t.Errorf("unexpected sync log: %+v", last)
	}
}

func TestServicePullRecordsFailure(t *testing.T) {
	p := &recordingProvider{listErr: &CallError{Provider: "fake", Operation: "list", StatusCode: http.StatusUnauthorized, Message: "denied"}}
	svc, store, _ := newTestService(t, p)

	if _, err := svc.PullRecords(context.Background(), 1); StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("PullRecords() error = %v; want status 401", err)
	}
	if len(store.Logs) != 1 || store.Logs[0].OK {
		t.Errorf("unexpected sync logs: %+v", store.Logs)
	}
}

func TestServiceUserAccounts(t *testing.T) {
	svc, _, _ := newTestService(t, &recordingProvider{})

	accounts, err := svc.UserAccounts(context.Background(), 7)
	if err != nil {
		t.Fatalf("UserAccounts() failed: %v", err)
	}
	if len(accounts) != 1 || accounts[0].String() != "me@fake.example" {
		t.Errorf("UserAccounts(7) = %+v", accounts)
	}

	if accounts, _ := svc.UserAccounts(context.Background(), 8); len(accounts) != 0 {
		t.Errorf("UserAccounts(8) = %+v; want none", accounts)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "ok", 10, "ok"},
		{"exact", "abcdef", 6, "abcdef"},
		{"ascii", "abcdefghij", 8, "abcde..."},
		// "é" spans bytes 1-2, a plain cut at 2 would split it
		{"multibyte", "aébcdef", 5, "a..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q; want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) || len(got) > tt.n {
				t.Errorf("truncate(%q, %d) = %q is not a valid prefix", tt.in, tt.n, got)
			}
		})
	}
}
