package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"go_gizmo/internal/dns"
	"go_gizmo/internal/dnstypes"
	"go_gizmo/internal/model"
)

const (
	// Name is the registry name of the adapter
	Name = "cloudflare"

	// DefaultBaseURL is the public Cloudflare v4 API
	DefaultBaseURL = "https://api.cloudflare.com/client/v4"

	requestTimeout = 10 * time.Second

	// automaticTTL is Cloudflare's "automatic" ttl value
	automaticTTL = 1
)

var _ dns.Provider = (*CloudflareProvider)(nil)

// CloudflareProvider implements dns.Provider for Cloudflare API.
// The account login is the X-Auth-Email, the account API key the X-Auth-Key.
type CloudflareProvider struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Entry
}

// NewCloudflareProvider creates a new Cloudflare DNS provider
func NewCloudflareProvider(baseURL string, client *http.Client, logger *logrus.Entry) *CloudflareProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &CloudflareProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		logger:  logger.WithField("component", "cloudflare-provider"),
	}
}

// Factory builds the adapter for a dns.Registry
func Factory(cfg dns.FactoryConfig) (dns.Provider, error) {
	return NewCloudflareProvider(cfg.BaseURL, cfg.Client, cfg.Logger), nil
}

// CloudflareRecord represents a Cloudflare DNS record (API response)
type CloudflareRecord struct {
	ID       string  `json:"id,omitempty"`
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	Content  string  `json:"content"`
	TTL      int     `json:"ttl"`
	Priority *int    `json:"priority,omitempty"`
	Comment  *string `json:"comment,omitempty"`
}

// CloudflareResponse represents a Cloudflare API response
type CloudflareResponse struct {
	Success bool              `json:"success"`
	Errors  []CloudflareError `json:"errors"`
	Result  json.RawMessage   `json:"result"`
}

// CloudflareError represents a Cloudflare API error
type CloudflareError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type zone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (p *CloudflareProvider) Name() string {
	return Name
}

// ListRecords lists all DNS records for a zone
func (p *CloudflareProvider) ListRecords(ctx context.Context, account *model.Account, domain *model.Domain) ([]dnstypes.Record, error) {
	zoneID, err := p.zoneID(ctx, "list", account, domain)
	if err != nil {
		return nil, err
	}

	var cfRecords []CloudflareRecord
	path := fmt.Sprintf("/zones/%s/dns_records?per_page=1000", url.PathEscape(zoneID))
	if _, err := p.do(ctx, "list", http.MethodGet, path, account, nil, &cfRecords); err != nil {
		return nil, err
	}

	records := make([]dnstypes.Record, 0, len(cfRecords))
	for _, r := range cfRecords {
		records = append(records, toCanonical(r, domain.Domain))
	}
	return records, nil
}

// CreateRecord creates a new DNS record
func (p *CloudflareProvider) CreateRecord(ctx context.Context, account *model.Account, domain *model.Domain, record dnstypes.Record) (*dns.Response, error) {
	zoneID, err := p.zoneID(ctx, "create", account, domain)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/zones/%s/dns_records", url.PathEscape(zoneID))
	return p.do(ctx, "create", http.MethodPost, path, account, fromCanonical(record, domain.Domain), nil)
}

// UpdateRecord replaces the record with the same type and name
func (p *CloudflareProvider) UpdateRecord(ctx context.Context, account *model.Account, domain *model.Domain, record dnstypes.Record) (*dns.Response, error) {
	zoneID, err := p.zoneID(ctx, "update", account, domain)
	if err != nil {
		return nil, err
	}

	recordID, err := p.findRecord(ctx, "update", account, zoneID, domain.Domain, record)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/zones/%s/dns_records/%s", url.PathEscape(zoneID), url.PathEscape(recordID))
	return p.do(ctx, "update", http.MethodPut, path, account, fromCanonical(record, domain.Domain), nil)
}

// DeleteRecord deletes the record with the same type and name
func (p *CloudflareProvider) DeleteRecord(ctx context.Context, account *model.Account, domain *model.Domain, record dnstypes.Record) (*dns.Response, error) {
	zoneID, err := p.zoneID(ctx, "delete", account, domain)
	if err != nil {
		return nil, err
	}

	recordID, err := p.findRecord(ctx, "delete", account, zoneID, domain.Domain, record)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/zones/%s/dns_records/%s", url.PathEscape(zoneID), url.PathEscape(recordID))
	return p.do(ctx, "delete", http.MethodDelete, path, account, nil, nil)
}

// zoneID returns the cached zone id of the domain or looks it up by name
func (p *CloudflareProvider) zoneID(ctx context.Context, op string, account *model.Account, domain *model.Domain) (string, error) {
	if domain.ProviderZoneID != "" {
		return domain.ProviderZoneID, nil
	}

	var zones []zone
	path := "/zones?name=" + url.QueryEscape(domain.Domain)
	if _, err := p.do(ctx, op, http.MethodGet, path, account, nil, &zones); err != nil {
		return "", err
	}
	if len(zones) == 0 {
		return "", p.fail(op, http.StatusNotFound, fmt.Sprintf("zone %s not found", domain.Domain), nil)
	}
	return zones[0].ID, nil
}

// findRecord finds a DNS record id by type and name
func (p *CloudflareProvider) findRecord(ctx context.Context, op string, account *model.Account, zoneID, zoneName string, record dnstypes.Record) (string, error) {
	record = record.Normalize()
	query := url.Values{}
	query.Set("type", record.Type)
	query.Set("name", dns.ToFQDN(zoneName, record.Name))

	var records []CloudflareRecord
	path := fmt.Sprintf("/zones/%s/dns_records?%s", url.PathEscape(zoneID), query.Encode())
	if _, err := p.do(ctx, op, http.MethodGet, path, account, nil, &records); err != nil {
		return "", err
	}

	if len(records) == 0 {
		return "", p.fail(op, http.StatusNotFound, fmt.Sprintf("%s record %s not found", record.Type, dns.ToFQDN(zoneName, record.Name)), nil)
	}
	return records[0].ID, nil
}

// do sends one request and decodes the result envelope into out when non-nil
func (p *CloudflareProvider) do(ctx context.Context, op, method, path string, account *model.Account, payload any, out any) (*dns.Response, error) {
	ctx, span := otel.Tracer("go_gizmo").Start(ctx, "cloudflare."+op)
	defer span.End()
	span.SetAttributes(attribute.String("http.method", method))

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, p.fail(op, 0, "failed to marshal payload", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return nil, p.fail(op, 0, "failed to create request", err)
	}

	req.Header.Set("X-Auth-Email", account.Login)
	req.Header.Set("X-Auth-Key", account.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, p.fail(op, 0, "failed to send request", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusNotFound {
		return nil, p.fail(op, http.StatusNotFound, "not found", nil)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, p.fail(op, resp.StatusCode, "failed to read response", err)
	}

	var cfResp CloudflareResponse
	if err := json.Unmarshal(respBody, &cfResp); err != nil {
		return nil, p.fail(op, resp.StatusCode, "failed to parse response", err)
	}

	if !cfResp.Success || resp.StatusCode != http.StatusOK {
		status := resp.StatusCode
		for _, e := range cfResp.Errors {
			// 81044: record not found, 81043: record does not exist
			if e.Code == 81044 || e.Code == 81043 {
				status = http.StatusNotFound
			}
		}
		return nil, p.fail(op, status, formatErrors(cfResp.Errors), nil)
	}

	if out != nil && len(cfResp.Result) > 0 {
		if err := json.Unmarshal(cfResp.Result, out); err != nil {
			return nil, p.fail(op, resp.StatusCode, "failed to parse result", err)
		}
	}

	var data map[string]any
	_ = json.Unmarshal(respBody, &data)
	return &dns.Response{StatusCode: resp.StatusCode, Status: "success", Data: data}, nil
}

func (p *CloudflareProvider) fail(op string, status int, message string, err error) error {
	callErr := &dns.CallError{Provider: Name, Operation: op, StatusCode: status, Message: message, Err: err}
	p.logger.WithFields(logrus.Fields{
		"operation": op,
		"status":    status,
	}).Warn(callErr.Error())
	return callErr
}

// formatErrors formats Cloudflare API errors into a readable string
func formatErrors(errors []CloudflareError) string {
	if len(errors) == 0 {
		return "unknown error"
	}

	var errMsgs []string
	for _, e := range errors {
		errMsgs = append(errMsgs, fmt.Sprintf("[%d] %s", e.Code, e.Message))
	}

	return strings.Join(errMsgs, "; ")
}

func toCanonical(r CloudflareRecord, zoneName string) dnstypes.Record {
	ttl := r.TTL
	if ttl == automaticTTL || ttl <= 0 {
		ttl = dnstypes.DefaultTTL
	}
	return dnstypes.Record{
		Name:     dns.RelativeName(r.Name, zoneName),
		Type:     r.Type,
		Value:    r.Content,
		TTL:      ttl,
		Priority: r.Priority,
		Comment:  r.Comment,
	}.Normalize()
}

func fromCanonical(record dnstypes.Record, zoneName string) CloudflareRecord {
	record = record.Normalize()
	ttl := record.TTL
	if ttl <= 0 {
		ttl = automaticTTL
	}
	return CloudflareRecord{
		Type:     record.Type,
		Name:     dns.ToFQDN(zoneName, record.Name),
		Content:  record.Value,
		TTL:      ttl,
		Priority: record.Priority,
		Comment:  record.Comment,
	}
}
