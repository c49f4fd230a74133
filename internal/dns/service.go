package dns

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"go_gizmo/internal/dnstypes"
	"go_gizmo/internal/model"
)

// ListCache caches provider listings per domain
type ListCache interface {
	Get(ctx context.Context, domainID int) ([]dnstypes.Record, bool)
	Set(ctx context.Context, domainID int, records []dnstypes.Record)
	Invalidate(ctx context.Context, domainID int)
}

// Service routes record operations on stored entities to the domain's provider
type Service struct {
	store    Store
	registry *Registry
	cache    ListCache
	logger   *logrus.Entry
}

// NewService creates a new DNS service; cache may be nil
func NewService(store Store, registry *Registry, cache ListCache, logger *logrus.Entry) *Service {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		store:    store,
		registry: registry,
		cache:    cache,
		logger:   logger.WithField("component", "dns-service"),
	}
}

// Store returns the underlying store
func (s *Service) Store() Store {
	return s.store
}

// Registry returns the provider registry
func (s *Service) Registry() *Registry {
	return s.registry
}

// UserAccounts lists the provider accounts owned by a user
func (s *Service) UserAccounts(ctx context.Context, userID int) ([]model.Account, error) {
	return s.store.ListAccountsByUser(ctx, userID)
}

// AccountDomains lists the locally known domains of an account
func (s *Service) AccountDomains(ctx context.Context, accountID int) ([]model.Domain, error) {
	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return nil, fmt.Errorf("account %d: %w", accountID, err)
	}
	return s.store.ListDomainsByAccount(ctx, accountID)
}

// ListRecords fetches the live records of a domain from its provider
func (s *Service) ListRecords(ctx context.Context, domainID int) ([]dnstypes.Record, error) {
	domain, err := s.store.GetDomain(ctx, domainID)
	if err != nil {
		return nil, fmt.Errorf("domain %d: %w", domainID, err)
	}
	return s.ListDomainRecords(ctx, domain)
}

// ListDomainRecords is ListRecords for an already loaded domain
func (s *Service) ListDomainRecords(ctx context.Context, domain *model.Domain) ([]dnstypes.Record, error) {
	if s.cache != nil {
		if records, ok := s.cache.Get(ctx, domain.ID); ok {
			return records, nil
		}
	}

	provider, err := s.registry.ResolveFor(ctx, &domain.Account.Provider)
	if err != nil {
		return nil, err
	}

	records, err := provider.ListRecords(ctx, &domain.Account, domain)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []dnstypes.Record{}
	}

	if s.cache != nil {
		s.cache.Set(ctx, domain.ID, records)
	}
	return records, nil
}

// CreateRecord pushes a stored record to its provider as a new record
func (s *Service) CreateRecord(ctx context.Context, recordID int) (*Response, error) {
	return s.push(ctx, recordID, model.SyncOperationCreate)
}

// UpdateRecord pushes a stored record to its provider, replacing the record with the same type and name
func (s *Service) UpdateRecord(ctx context.Context, recordID int) (*Response, error) {
	return s.push(ctx, recordID, model.SyncOperationUpdate)
}

// DeleteRecord removes a stored record from its provider
func (s *Service) DeleteRecord(ctx context.Context, recordID int) (*Response, error) {
	return s.push(ctx, recordID, model.SyncOperationDelete)
}

// Push dispatches op (create, update or delete) for a stored record
func (s *Service) Push(ctx context.Context, recordID int, op model.SyncOperation) (*Response, error) {
	switch op {
	case model.SyncOperationCreate, model.SyncOperationUpdate, model.SyncOperationDelete:
		return s.push(ctx, recordID, op)
	default:
		return nil, fmt.Errorf("unsupported operation %q", op)
	}
}

func (s *Service) push(ctx context.Context, recordID int, op model.SyncOperation) (*Response, error) {
	record, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("record %d: %w", recordID, err)
	}

	if op != model.SyncOperationDelete && !record.IsActive {
		return nil, fmt.Errorf("%s: %w", record.Label(), ErrRecordInactive)
	}

	domain := &record.Domain
	provider, err := s.registry.ResolveFor(ctx, &domain.Account.Provider)
	if err != nil {
		return nil, err
	}

	canonical := record.Canonical()
	var resp *Response
	switch op {
	case model.SyncOperationCreate:
		resp, err = provider.CreateRecord(ctx, &domain.Account, domain, canonical)
	case model.SyncOperationUpdate:
		resp, err = provider.UpdateRecord(ctx, &domain.Account, domain, canonical)
	case model.SyncOperationDelete:
		resp, err = provider.DeleteRecord(ctx, &domain.Account, domain, canonical)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, domain.ID)
	}

	id := record.ID
	s.recordSync(ctx, domain.ID, &id, op, resp, err)

	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, record.Label(), err)
	}

	s.logger.WithFields(logrus.Fields{
		"provider":  provider.Name(),
		"operation": op,
		"record":    record.Label(),
	}).Info("DNS record pushed")
	return resp, nil
}

// recordSync stores the outcome of a provider call; failures to write are only logged
func (s *Service) recordSync(ctx context.Context, domainID int, recordID *int, op model.SyncOperation, resp *Response, callErr error) {
	entry := &model.SyncLog{
		DomainID:    domainID,
		DNSRecordID: recordID,
		Operation:   op,
		OK:          callErr == nil,
	}

	if callErr != nil {
		entry.StatusCode = StatusOf(callErr)
		entry.Message = truncate(callErr.Error(), 255)
	} else if resp != nil {
		entry.StatusCode = resp.StatusCode
		entry.Message = truncate(resp.Status, 255)
		if resp.Data != nil {
			if body, err := json.Marshal(resp.Data); err == nil {
				entry.Response = datatypes.JSON(body)
			}
		}
	}

	if err := s.store.CreateSyncLog(ctx, entry); err != nil {
		s.logger.WithError(err).WithField("domain_id", domainID).Warn("failed to write sync log")
	}
}

// truncate caps s at n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
