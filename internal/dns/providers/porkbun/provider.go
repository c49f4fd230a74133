package porkbun

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
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
	Name = "porkbun"

	// DefaultBaseURL is the public Porkbun JSON API
	DefaultBaseURL = "https://api.porkbun.com/api/json/v3"

	requestTimeout = 10 * time.Second
)

var _ dns.Provider = (*Provider)(nil)

// Provider implements dns.Provider for the Porkbun API.
// Porkbun authenticates through the JSON body and identifies records by
// domain, type and name.
type Provider struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Entry
}

// New creates a Porkbun adapter. Empty baseURL and nil client select the defaults.
func New(baseURL string, client *http.Client, logger *logrus.Entry) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Provider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		logger:  logger.WithField("component", "porkbun-provider"),
	}
}

// Factory builds the adapter for a dns.Registry
func Factory(cfg dns.FactoryConfig) (dns.Provider, error) {
	return New(cfg.BaseURL, cfg.Client, cfg.Logger), nil
}

func (p *Provider) Name() string {
	return Name
}

// ListRecords retrieves all records of the domain
func (p *Provider) ListRecords(ctx context.Context, account *model.Account, domain *model.Domain) ([]dnstypes.Record, error) {
	body, err := Payload(account, nil)
	if err != nil {
		return nil, err
	}

	raw, _, err := p.call(ctx, "list", p.endpoint("retrieve", domain.Domain), body)
	if err != nil {
		return nil, err
	}

	return parseListRecords(raw, domain.Domain)
}

// CreateRecord creates a record; the new record has no prior identity so only the domain is addressed
func (p *Provider) CreateRecord(ctx context.Context, account *model.Account, domain *model.Domain, record dnstypes.Record) (*dns.Response, error) {
	record = record.Normalize()
	body, err := Payload(account, &record)
	if err != nil {
		return nil, err
	}
	_, resp, err := p.call(ctx, "create", p.endpoint("create", domain.Domain), body)
	return resp, err
}

// UpdateRecord edits the record with the same type and name
func (p *Provider) UpdateRecord(ctx context.Context, account *model.Account, domain *model.Domain, record dnstypes.Record) (*dns.Response, error) {
	record = record.Normalize()
	body, err := Payload(account, &record)
	if err != nil {
		return nil, err
	}
	_, resp, err := p.call(ctx, "update", p.endpoint("editByNameType", domain.Domain, record.Type, record.Name), body)
	return resp, err
}

// DeleteRecord deletes the record with the same type and name
func (p *Provider) DeleteRecord(ctx context.Context, account *model.Account, domain *model.Domain, record dnstypes.Record) (*dns.Response, error) {
	record = record.Normalize()
	body, err := Payload(account, nil)
	if err != nil {
		return nil, err
	}
	_, resp, err := p.call(ctx, "delete", p.endpoint("deleteByNameType", domain.Domain, record.Type, record.Name), body)
	return resp, err
}

// endpoint joins base URL, /dns/{op} and the escaped path parameters.
// Empty trailing parameters (the apex name) are left out.
func (p *Provider) endpoint(op string, params ...string) string {
	for len(params) > 0 && params[len(params)-1] == "" {
		params = params[:len(params)-1]
	}

	var b strings.Builder
	b.WriteString(p.baseURL)
	b.WriteString("/dns/")
	b.WriteString(op)
	for _, param := range params {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(param))
	}
	return b.String()
}

// call issues one POST and classifies the answer.
// It returns the raw body and decoded response on success.
func (p *Provider) call(ctx context.Context, op, endpoint string, body []byte) ([]byte, *dns.Response, error) {
	ctx, span := otel.Tracer("go_gizmo").Start(ctx, "porkbun."+op)
	defer span.End()

	fail := func(status int, message string, err error) ([]byte, *dns.Response, error) {
		callErr := &dns.CallError{Provider: Name, Operation: op, StatusCode: status, Message: message, Err: err}
		span.RecordError(callErr)
		p.logger.WithFields(logrus.Fields{
			"operation": op,
			"status":    status,
		}).Warn(callErr.Error())
		return nil, nil, callErr
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fail(0, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fail(0, "failed to send request", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, "failed to read response", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fail(http.StatusNotFound, "Page not found", nil)
	default:
		return fail(resp.StatusCode, errorMessage(raw, resp.StatusCode), nil)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return fail(resp.StatusCode, "failed to parse response", err)
	}

	status, _ := data["status"].(string)
	if strings.EqualFold(status, "ERROR") {
		return fail(resp.StatusCode, errorMessage(raw, resp.StatusCode), nil)
	}

	return raw, &dns.Response{StatusCode: resp.StatusCode, Status: status, Data: data}, nil
}

// errorMessage extracts the message field of an error body
func errorMessage(raw []byte, status int) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

// flexString decodes a JSON string, number or null.
// Porkbun reports ttl and prio as strings.
type flexString struct {
	value string
	set   bool
}

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f.value, f.set = strings.TrimSpace(s), true
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	f.value, f.set = n.String(), true
	return nil
}

func (f flexString) int() (int, bool) {
	if !f.set || f.value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(f.value)
	if err != nil {
		return 0, false
	}
	return n, true
}
