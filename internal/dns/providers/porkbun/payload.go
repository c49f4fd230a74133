package porkbun

import (
	"encoding/json"
	"fmt"

	"go_gizmo/internal/dns"
	"go_gizmo/internal/dnstypes"
	"go_gizmo/internal/model"
)

type authPayload struct {
	APIKey       string `json:"apikey"`
	SecretAPIKey string `json:"secretapikey"`
}

// recordPayload fields are emitted in declaration order; prio and note are
// dropped entirely when unset since Porkbun treats their presence as meaningful.
type recordPayload struct {
	APIKey       string `json:"apikey"`
	SecretAPIKey string `json:"secretapikey"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Content      string `json:"content"`
	TTL          int    `json:"ttl"`
	Prio         int    `json:"prio,omitempty"`
	Note         string `json:"note,omitempty"`
}

// Payload builds the JSON request body. A nil record yields the
// authentication-only body used by list and delete.
func Payload(account *model.Account, record *dnstypes.Record) ([]byte, error) {
	if account == nil {
		return nil, fmt.Errorf("porkbun: account is required")
	}

	if record == nil {
		return json.Marshal(authPayload{
			APIKey:       account.APIKey,
			SecretAPIKey: account.SecretAPIKey,
		})
	}

	r := record.Normalize()
	return json.Marshal(recordPayload{
		APIKey:       account.APIKey,
		SecretAPIKey: account.SecretAPIKey,
		Name:         r.Name,
		Type:         r.Type,
		Content:      r.Value,
		TTL:          r.TTL,
		Prio:         r.PriorityValue(),
		Note:         r.CommentValue(),
	})
}

// porkbunRecord is one entry of /dns/retrieve
type porkbunRecord struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Type    string     `json:"type"`
	Content string     `json:"content"`
	TTL     flexString `json:"ttl"`
	Prio    flexString `json:"prio"`
	Notes   *string    `json:"notes"`
	Note    *string    `json:"note"`
}

type retrieveResponse struct {
	Status  string          `json:"status"`
	Records []porkbunRecord `json:"records"`
}

func parseListRecords(raw []byte, zone string) ([]dnstypes.Record, error) {
	var resp retrieveResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("porkbun: failed to parse records: %w", err)
	}

	records := make([]dnstypes.Record, 0, len(resp.Records))
	for _, r := range resp.Records {
		records = append(records, normalizeRecord(r, zone))
	}
	return records, nil
}

// normalizeRecord converts a Porkbun record to canonical form:
// zone suffix stripped, ttl defaulted and capped, "0" priority dropped.
func normalizeRecord(r porkbunRecord, zone string) dnstypes.Record {
	ttl, ok := r.TTL.int()
	if !ok {
		ttl = dnstypes.DefaultTTL
	}
	if ttl > dnstypes.MaxTTL {
		ttl = dnstypes.MaxTTL
	}

	var priority *int
	if prio, ok := r.Prio.int(); ok && prio != 0 {
		priority = dnstypes.IntPtr(prio)
	}

	var comment *string
	switch {
	case r.Note != nil && *r.Note != "":
		comment = dnstypes.StringPtr(*r.Note)
	case r.Notes != nil && *r.Notes != "":
		comment = dnstypes.StringPtr(*r.Notes)
	}

	return dnstypes.Record{
		Name:     dns.RelativeName(r.Name, zone),
		Type:     r.Type,
		Value:    r.Content,
		TTL:      ttl,
		Priority: priority,
		Comment:  comment,
	}.Normalize()
}
