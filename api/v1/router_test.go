package v1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go_gizmo/internal/auth"
	"go_gizmo/internal/dns"
	"go_gizmo/internal/dns/dnstest"
	"go_gizmo/internal/dnstypes"
	"go_gizmo/internal/httpx"
	"go_gizmo/internal/model"
)

type noUsers struct{}

func (noUsers) FindByUsername(context.Context, string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

// stubProvider answers every call successfully, or with err when set
type stubProvider struct {
	records []dnstypes.Record
	err     error
	calls   []string
}

func (p *stubProvider) Name() string { return "fake" }

func (p *stubProvider) ListRecords(context.Context, *model.Account, *model.Domain) ([]dnstypes.Record, error) {
	p.calls = append(p.calls, "list")
	return p.records, p.err
}

func (p *stubProvider) answer(op string) (*dns.Response, error) {
	p.calls = append(p.calls, op)
	if p.err != nil {
		return nil, p.err
	}
	return &dns.Response{StatusCode: http.StatusOK, Status: "SUCCESS"}, nil
}

func (p *stubProvider) CreateRecord(context.Context, *model.Account, *model.Domain, dnstypes.Record) (*dns.Response, error) {
	return p.answer("create")
}

func (p *stubProvider) UpdateRecord(context.Context, *model.Account, *model.Domain, dnstypes.Record) (*dns.Response, error) {
	return p.answer("update")
}

func (p *stubProvider) DeleteRecord(context.Context, *model.Account, *model.Domain, dnstypes.Record) (*dns.Response, error) {
	return p.answer("delete")
}

type testAPI struct {
	router   *gin.Engine
	provider *stubProvider
	store    *dnstest.MemStore
	issuer   *auth.TokenIssuer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)
	entry := logrus.NewEntry(log)

	p := &stubProvider{records: []dnstypes.Record{{Name: "www", Type: "A", Value: "1.2.3.4", TTL: 600}}}
	reg := dns.NewRegistry(dns.Options{Logger: entry})
	if err := reg.Register("fake", func(dns.FactoryConfig) (dns.Provider, error) { return p, nil }); err != nil {
		t.Fatal(err)
	}
	store := dnstest.Fixture()
	issuer, err := auth.NewTokenIssuer("secret", "go_gizmo", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	SetupRouter(r, Deps{
		Service: dns.NewService(store, reg, nil, entry),
		Users:   noUsers{},
		Issuer:  issuer,
		Logger:  entry,
	})
	return &testAPI{router: r, provider: p, store: store, issuer: issuer}
}

func (a *testAPI) do(t *testing.T, method, path string, uid int) (int, httpx.Response) {
	t.Helper()
	req, _ := http.NewRequest(method, path, nil)
	if uid != 0 {
		token, _, err := a.issuer.Generate(uid, "user", "user")
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var resp httpx.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: bad body %q: %v", method, path, w.Body.String(), err)
	}
	return w.Code, resp
}

func TestPing(t *testing.T) {
	api := newTestAPI(t)
	if status, _ := api.do(t, http.MethodGet, "/api/v1/ping", 0); status != http.StatusOK {
		t.Errorf("ping status = %d", status)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)
	for _, path := range []string{"/api/v1/providers", "/api/v1/accounts", "/api/v1/domains/1/records"} {
		if status, _ := api.do(t, http.MethodGet, path, 0); status != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d; want 401", path, status)
		}
	}
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		uid    int
		status int
		code   int
	}{
		{"providers", http.MethodGet, "/api/v1/providers", 7, http.StatusOK, httpx.CodeSuccess},
		{"accounts", http.MethodGet, "/api/v1/accounts", 7, http.StatusOK, httpx.CodeSuccess},
		{"account domains", http.MethodGet, "/api/v1/accounts/1/domains", 7, http.StatusOK, httpx.CodeSuccess},
		{"foreign account", http.MethodGet, "/api/v1/accounts/1/domains", 8, http.StatusNotFound, httpx.CodeNotFound},
		{"missing account", http.MethodGet, "/api/v1/accounts/9/domains", 7, http.StatusNotFound, httpx.CodeNotFound},
		{"bad id", http.MethodGet, "/api/v1/accounts/x/domains", 7, http.StatusBadRequest, httpx.CodeParamInvalid},
		{"domain records", http.MethodGet, "/api/v1/domains/1/records", 7, http.StatusOK, httpx.CodeSuccess},
		{"foreign domain", http.MethodGet, "/api/v1/domains/1/records", 8, http.StatusNotFound, httpx.CodeNotFound},
		{"pull", http.MethodPost, "/api/v1/domains/1/pull", 7, http.StatusOK, httpx.CodeSuccess},
		{"create", http.MethodPost, "/api/v1/records/10/create", 7, http.StatusOK, httpx.CodeSuccess},
		{"update", http.MethodPost, "/api/v1/records/10/update", 7, http.StatusOK, httpx.CodeSuccess},
		{"delete", http.MethodPost, "/api/v1/records/10/delete", 7, http.StatusOK, httpx.CodeSuccess},
		{"inactive create", http.MethodPost, "/api/v1/records/11/create", 7, http.StatusConflict, httpx.CodeStateConflict},
		{"foreign record", http.MethodPost, "/api/v1/records/10/delete", 8, http.StatusNotFound, httpx.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			status, resp := api.do(t, tt.method, tt.path, tt.uid)
			if status != tt.status || resp.Code != tt.code {
				t.Errorf("%s %s = (%d, %d %q); want (%d, %d)", tt.method, tt.path, status, resp.Code, resp.Message, tt.status, tt.code)
			}
		})
	}
}

func TestRecordsProviderFailure(t *testing.T) {
	api := newTestAPI(t)
	api.provider.err = &dns.CallError{Provider: "fake", Operation: "update", StatusCode: http.StatusNotFound}

	status, resp := api.do(t, http.MethodPost, "/api/v1/records/10/update", 7)
	if status != http.StatusNotFound || resp.Code != httpx.CodeNotFound {
		t.Errorf("update = (%d, %d); want (404, %d)", status, resp.Code, httpx.CodeNotFound)
	}
	if len(api.store.Logs) != 1 || api.store.Logs[0].OK {
		t.Errorf("failed push not logged: %+v", api.store.Logs)
	}
}

func TestUnsupportedProvider(t *testing.T) {
	api := newTestAPI(t)
	api.store.Domains[1].Account.Provider.Name = "gandi"

	status, resp := api.do(t, http.MethodGet, "/api/v1/domains/1/records", 7)
	if status != http.StatusInternalServerError || resp.Code != httpx.CodeProviderUnresolvable {
		t.Errorf("records = (%d, %d); want (500, %d)", status, resp.Code, httpx.CodeProviderUnresolvable)
	}
	if len(api.provider.calls) != 0 {
		t.Errorf("provider called: %v", api.provider.calls)
	}
}

func TestDomainRecordsBody(t *testing.T) {
	api := newTestAPI(t)

	_, resp := api.do(t, http.MethodGet, "/api/v1/domains/1/records", 7)
	data, _ := resp.Data.(map[string]any)
	items, _ := data["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %v", data["items"])
	}
	first := items[0].(map[string]any)
	if first["name"] != "www" || first["value"] != "1.2.3.4" || first["ttl"] != float64(600) {
		t.Errorf("unexpected record %v", first)
	}
}
