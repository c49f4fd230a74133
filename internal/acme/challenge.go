package acme

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-acme/lego/v4/challenge"
	"github.com/go-acme/lego/v4/challenge/dns01"
	"github.com/go-acme/lego/v4/lego"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go_gizmo/internal/dns"
	"go_gizmo/internal/dnstypes"
	"go_gizmo/internal/model"
)

const (
	challengeComment = "acme dns-01 challenge"

	// providers like porkbun publish changes slowly
	defaultPropagationTimeout = 10 * time.Minute
	defaultPollingInterval    = 10 * time.Second
	defaultCallTimeout        = 30 * time.Second
)

var (
	_ challenge.Provider        = (*ChallengeProvider)(nil)
	_ challenge.ProviderTimeout = (*ChallengeProvider)(nil)
)

// ChallengeProvider solves DNS-01 challenges for managed domains.
// The TXT record is stored like any other record and pushed to the
// domain's provider; CleanUp removes it from both sides.
type ChallengeProvider struct {
	service  *dns.Service
	logger   *logrus.Entry
	timeout  time.Duration
	interval time.Duration

	mu        sync.Mutex
	presented map[string]int // fqdn|value -> record id
}

// NewChallengeProvider creates a challenge provider on top of the dns service
func NewChallengeProvider(service *dns.Service, logger *logrus.Entry) *ChallengeProvider {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ChallengeProvider{
		service:   service,
		logger:    logger.WithField("component", "acme-dns01"),
		timeout:   defaultPropagationTimeout,
		interval:  defaultPollingInterval,
		presented: make(map[string]int),
	}
}

// Use installs p as the DNS-01 solver of a lego client
func (p *ChallengeProvider) Use(client *lego.Client, nameservers ...string) error {
	var opts []dns01.ChallengeOption
	if len(nameservers) > 0 {
		opts = append(opts, dns01.AddRecursiveNameservers(nameservers))
	}
	if err := client.Challenge.SetDNS01Provider(p, opts...); err != nil {
		return fmt.Errorf("failed to set DNS provider: %w", err)
	}
	return nil
}

// Timeout returns the propagation timeout and polling interval
func (p *ChallengeProvider) Timeout() (timeout, interval time.Duration) {
	return p.timeout, p.interval
}

// Present creates the challenge TXT record
func (p *ChallengeProvider) Present(domain, token, keyAuth string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultCallTimeout)
	defer cancel()

	info := dns01.GetChallengeInfo(domain, keyAuth)
	zone, err := p.zoneFor(ctx, info.EffectiveFQDN)
	if err != nil {
		return err
	}

	txt, err := p.service.Store().FindDNSType(ctx, "TXT")
	if err != nil {
		return fmt.Errorf("dns type TXT: %w", err)
	}

	record := dnstypes.Record{
		Name:  dns.RelativeName(info.EffectiveFQDN, zone.Domain),
		Type:  "TXT",
		Value: info.Value,
		TTL:   dnstypes.DefaultTTL,
	}

	row, err := p.service.Store().FindRecord(ctx, zone.ID, txt.ID, record)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	created := row == nil
	if created {
		row = &model.DNSRecord{
			DomainID:  zone.ID,
			Name:      record.Name,
			DNSTypeID: txt.ID,
			Value:     record.Value,
			TTL:       record.TTL,
			Comment:   dnstypes.StringPtr(challengeComment),
			IsActive:  true,
		}
		if err := p.service.Store().SaveRecord(ctx, row); err != nil {
			return fmt.Errorf("failed to store challenge record: %w", err)
		}
	}

	if _, err := p.service.CreateRecord(ctx, row.ID); err != nil {
		// a row that was already stored is not ours to drop
		if created {
			if delErr := p.service.Store().DeleteRecord(ctx, row.ID); delErr != nil {
				p.logger.WithError(delErr).WithField("record_id", row.ID).Warn("failed to drop challenge record")
			}
		}
		return fmt.Errorf("present %s: %w", info.EffectiveFQDN, err)
	}

	p.mu.Lock()
	p.presented[challengeKey(info)] = row.ID
	p.mu.Unlock()

	p.logger.WithFields(logrus.Fields{
		"domain": domain,
		"fqdn":   info.EffectiveFQDN,
		"zone":   zone.Domain,
	}).Info("DNS-01 challenge presented")
	return nil
}

// CleanUp removes the challenge TXT record
func (p *ChallengeProvider) CleanUp(domain, token, keyAuth string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultCallTimeout)
	defer cancel()

	info := dns01.GetChallengeInfo(domain, keyAuth)
	key := challengeKey(info)

	p.mu.Lock()
	id, ok := p.presented[key]
	p.mu.Unlock()
	if !ok {
		return fmt.Errorf("no challenge presented for %s", info.EffectiveFQDN)
	}

	// porkbun deletes by type and name, so a sibling challenge at the
	// same fqdn may already have taken this record down
	if _, err := p.service.DeleteRecord(ctx, id); err != nil {
		if !errors.Is(err, dns.ErrNotFound) {
			return fmt.Errorf("cleanup %s: %w", info.EffectiveFQDN, err)
		}
		p.logger.WithField("fqdn", info.EffectiveFQDN).Info("challenge record already gone at provider")
	}
	if err := p.service.Store().DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("failed to drop challenge record: %w", err)
	}

	p.mu.Lock()
	delete(p.presented, key)
	p.mu.Unlock()
	return nil
}

// zoneFor returns the managed domain with the longest suffix match
func (p *ChallengeProvider) zoneFor(ctx context.Context, fqdn string) (*model.Domain, error) {
	domains, err := p.service.Store().ListDomains(ctx)
	if err != nil {
		return nil, err
	}

	zones := make([]string, 0, len(domains))
	for _, d := range domains {
		zones = append(zones, d.Domain)
	}
	zone := dns.ZoneFor(fqdn, zones)
	for i := range domains {
		if zone != "" && domains[i].Domain == zone {
			return &domains[i], nil
		}
	}
	return nil, fmt.Errorf("no managed domain for %s", fqdn)
}

func challengeKey(info dns01.ChallengeInfo) string {
	return info.EffectiveFQDN + "|" + info.Value
}
