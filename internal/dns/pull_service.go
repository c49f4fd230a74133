package dns

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go_gizmo/internal/dnstypes"
	"go_gizmo/internal/model"
)

// PullSyncResult represents the result of DNS records pull synchronization
type PullSyncResult struct {
	Fetched int `json:"fetched"` // Total records fetched from the provider
	Created int `json:"created"` // New local records created
	Updated int `json:"updated"` // Existing local records updated
	Skipped int `json:"skipped"` // Records of types unknown locally
}

// PullRecords imports the provider's current records of a domain into the store.
// Records are matched by identity (name, type, value, priority); ttl and comment
// of matches are refreshed. Nothing is deleted locally.
func (s *Service) PullRecords(ctx context.Context, domainID int) (*PullSyncResult, error) {
	domain, err := s.store.GetDomain(ctx, domainID)
	if err != nil {
		return nil, fmt.Errorf("domain %d: %w", domainID, err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, domain.ID)
	}

	records, err := s.ListDomainRecords(ctx, domain)
	if err != nil {
		s.recordSync(ctx, domain.ID, nil, model.SyncOperationPull, nil, err)
		return nil, fmt.Errorf("failed to list provider records: %w", err)
	}

	result := &PullSyncResult{Fetched: len(records)}
	types := make(map[string]*model.DNSType)

	for _, record := range records {
		t, ok := types[record.Type]
		if !ok {
			t, err = s.store.FindDNSType(ctx, record.Type)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return result, fmt.Errorf("dns type %s: %w", record.Type, err)
			}
			types[record.Type] = t
		}
		if t == nil {
			result.Skipped++
			continue
		}

		created, updated, err := s.syncSingleRecord(ctx, domain.ID, t.ID, record)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"domain": domain.Domain,
				"type":   record.Type,
				"name":   record.Name,
			}).Error("failed to sync pulled record")
			continue
		}
		if created {
			result.Created++
		} else if updated {
			result.Updated++
		}
	}

	s.recordSync(ctx, domain.ID, nil, model.SyncOperationPull, &Response{
		Status: "SUCCESS",
		Data: map[string]any{
			"fetched": result.Fetched,
			"created": result.Created,
			"updated": result.Updated,
			"skipped": result.Skipped,
		},
	}, nil)

	s.logger.WithFields(logrus.Fields{
		"domain":  domain.Domain,
		"fetched": result.Fetched,
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
	}).Info("DNS records pulled")
	return result, nil
}

// syncSingleRecord upserts one pulled record, returning (created, updated, error)
func (s *Service) syncSingleRecord(ctx context.Context, domainID, dnsTypeID int, record dnstypes.Record) (bool, bool, error) {
	existing, err := s.store.FindRecord(ctx, domainID, dnsTypeID, record)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, false, err
	}

	if existing == nil {
		row := &model.DNSRecord{
			DomainID:  domainID,
			Name:      record.Name,
			DNSTypeID: dnsTypeID,
			Value:     record.Value,
			TTL:       record.TTL,
			Priority:  record.Priority,
			Comment:   record.Comment,
			IsActive:  true,
		}
		if err := s.store.SaveRecord(ctx, row); err != nil {
			return false, false, fmt.Errorf("failed to create record: %w", err)
		}
		return true, false, nil
	}

	needsUpdate := false
	if existing.TTL != record.TTL {
		existing.TTL = record.TTL
		needsUpdate = true
	}
	if existing.Comment == nil && record.Comment != nil || existing.Comment != nil && record.CommentValue() != *existing.Comment {
		existing.Comment = record.Comment
		needsUpdate = true
	}

	if !needsUpdate {
		return false, false, nil
	}
	if err := s.store.SaveRecord(ctx, existing); err != nil {
		return false, false, fmt.Errorf("failed to update record: %w", err)
	}
	return false, true, nil
}
