package dnstest

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"go_gizmo/internal/dnstypes"
	"go_gizmo/internal/model"
)

// MemStore is an in-memory dns.Store safe for concurrent use by the
// service. Lookups that miss return gorm.ErrRecordNotFound. Tests read the
// exported fields directly once the goroutines under test are done.
type MemStore struct {
	mu       sync.Mutex
	Accounts map[int]*model.Account
	Domains  map[int]*model.Domain
	Records  map[int]*model.DNSRecord
	Types    map[string]*model.DNSType
	Logs     []model.SyncLog
	NextID   int
}

// Fixture returns a store holding user 7's account 1 at the "fake" provider,
// domain 1 example.com, types A (1) and MX (2), active record 10 www A 1.2.3.4
// and inactive record 11 old A 9.9.9.9.
func Fixture() *MemStore {
	provider := model.Provider{BaseModel: model.BaseModel{ID: 1}, Name: "fake", Domain: "fake.example"}
	account := &model.Account{BaseModel: model.BaseModel{ID: 1}, UserID: 7, ProviderID: 1, Provider: provider, Login: "me", APIKey: "k1", SecretAPIKey: "s1"}
	domain := &model.Domain{BaseModel: model.BaseModel{ID: 1}, Domain: "example.com", AccountID: 1, Account: *account}
	typeA := &model.DNSType{BaseModel: model.BaseModel{ID: 1}, Name: "A"}
	typeMX := &model.DNSType{BaseModel: model.BaseModel{ID: 2}, Name: "MX"}

	s := &MemStore{
		Accounts: map[int]*model.Account{1: account},
		Domains:  map[int]*model.Domain{1: domain},
		Records:  map[int]*model.DNSRecord{},
		Types:    map[string]*model.DNSType{"A": typeA, "MX": typeMX},
		NextID:   100,
	}
	s.Records[10] = &model.DNSRecord{BaseModel: model.BaseModel{ID: 10}, DomainID: 1, Domain: *domain, Name: "www", DNSTypeID: 1, DNSType: *typeA, Value: "1.2.3.4", TTL: 600, IsActive: true}
	s.Records[11] = &model.DNSRecord{BaseModel: model.BaseModel{ID: 11}, DomainID: 1, Domain: *domain, Name: "old", DNSTypeID: 1, DNSType: *typeA, Value: "9.9.9.9", TTL: 600, IsActive: false}
	return s
}

func (s *MemStore) GetAccount(_ context.Context, id int) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.Accounts[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *MemStore) ListAccountsByUser(_ context.Context, userID int) ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Account
	for _, a := range s.Accounts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *MemStore) GetDomain(_ context.Context, id int) (*model.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.Domains[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *MemStore) GetRecord(_ context.Context, id int) (*model.DNSRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.Records[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *MemStore) ListDomains(context.Context) ([]model.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Domain
	for _, d := range s.Domains {
		out = append(out, *d)
	}
	return out, nil
}

func (s *MemStore) ListDomainsByAccount(_ context.Context, accountID int) ([]model.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Domain
	for _, d := range s.Domains {
		if d.AccountID == accountID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *MemStore) FindDNSType(_ context.Context, name string) (*model.DNSType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.Types[name]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *MemStore) FindRecord(_ context.Context, domainID, dnsTypeID int, record dnstypes.Record) (*model.DNSRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.Records {
		if r.DomainID == domainID && r.DNSTypeID == dnsTypeID && r.Name == record.Name && r.Value == record.Value &&
			(r.Priority == nil) == (record.Priority == nil) && (r.Priority == nil || *r.Priority == *record.Priority) {
			found := *r
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *MemStore) SaveRecord(_ context.Context, record *model.DNSRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID == 0 {
		s.NextID++
		record.ID = s.NextID
	}
	// mimic the preloads of the gorm store
	if d, ok := s.Domains[record.DomainID]; ok {
		record.Domain = *d
	}
	for _, t := range s.Types {
		if t.ID == record.DNSTypeID {
			record.DNSType = *t
		}
	}
	s.Records[record.ID] = record
	return nil
}

func (s *MemStore) DeleteRecord(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Records, id)
	return nil
}

func (s *MemStore) CreateSyncLog(_ context.Context, entry *model.SyncLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Logs = append(s.Logs, *entry)
	return nil
}

