package dns

import (
	"context"

	"gorm.io/gorm"

	"go_gizmo/internal/dnstypes"
	"go_gizmo/internal/model"
)

// Store is the persistence the facade needs.
// Lookups that find nothing return gorm.ErrRecordNotFound.
type Store interface {
	GetAccount(ctx context.Context, id int) (*model.Account, error)
	ListAccountsByUser(ctx context.Context, userID int) ([]model.Account, error)
	GetDomain(ctx context.Context, id int) (*model.Domain, error)
	GetRecord(ctx context.Context, id int) (*model.DNSRecord, error)
	ListDomains(ctx context.Context) ([]model.Domain, error)
	ListDomainsByAccount(ctx context.Context, accountID int) ([]model.Domain, error)
	FindDNSType(ctx context.Context, name string) (*model.DNSType, error)
	FindRecord(ctx context.Context, domainID, dnsTypeID int, record dnstypes.Record) (*model.DNSRecord, error)
	SaveRecord(ctx context.Context, record *model.DNSRecord) error
	DeleteRecord(ctx context.Context, id int) error
	CreateSyncLog(ctx context.Context, entry *model.SyncLog) error
}

// GormStore implements Store on gorm
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a gorm backed store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// GetDB returns the database instance
func (s *GormStore) GetDB() *gorm.DB {
	return s.db
}

func (s *GormStore) GetAccount(ctx context.Context, id int) (*model.Account, error) {
	var account model.Account
	if err := s.db.WithContext(ctx).Preload("Provider").First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *GormStore) ListAccountsByUser(ctx context.Context, userID int) ([]model.Account, error) {
	var accounts []model.Account
	err := s.db.WithContext(ctx).
		Preload("Provider").
		Where("user_id = ?", userID).
		Order("id").
		Find(&accounts).Error
	return accounts, err
}

func (s *GormStore) GetDomain(ctx context.Context, id int) (*model.Domain, error) {
	var domain model.Domain
	if err := s.db.WithContext(ctx).Preload("Account.Provider").First(&domain, id).Error; err != nil {
		return nil, err
	}
	return &domain, nil
}

func (s *GormStore) GetRecord(ctx context.Context, id int) (*model.DNSRecord, error) {
	var record model.DNSRecord
	err := s.db.WithContext(ctx).
		Preload("DNSType").
		Preload("Domain.Account.Provider").
		First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *GormStore) ListDomains(ctx context.Context) ([]model.Domain, error) {
	var domains []model.Domain
	err := s.db.WithContext(ctx).Preload("Account.Provider").Order("domain").Find(&domains).Error
	return domains, err
}

func (s *GormStore) ListDomainsByAccount(ctx context.Context, accountID int) ([]model.Domain, error) {
	var domains []model.Domain
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("domain").
		Find(&domains).Error
	return domains, err
}

func (s *GormStore) FindDNSType(ctx context.Context, name string) (*model.DNSType, error) {
	var t model.DNSType
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// FindRecord looks a record up by its identity (domain, name, type, value, priority)
func (s *GormStore) FindRecord(ctx context.Context, domainID, dnsTypeID int, record dnstypes.Record) (*model.DNSRecord, error) {
	q := s.db.WithContext(ctx).
		Where("domain_id = ? AND name = ? AND dns_type_id = ? AND value = ?", domainID, record.Name, dnsTypeID, record.Value)
	if record.Priority == nil {
		q = q.Where("priority IS NULL")
	} else {
		q = q.Where("priority = ?", *record.Priority)
	}

	var existing model.DNSRecord
	if err := q.First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *GormStore) SaveRecord(ctx context.Context, record *model.DNSRecord) error {
	// Associations are loaded for reads only; never upsert them from here.
	return s.db.WithContext(ctx).Omit("Domain", "DNSType").Save(record).Error
}

func (s *GormStore) DeleteRecord(ctx context.Context, id int) error {
	return s.db.WithContext(ctx).Delete(&model.DNSRecord{}, id).Error
}

func (s *GormStore) CreateSyncLog(ctx context.Context, entry *model.SyncLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}
