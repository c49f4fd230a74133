package dnstypes

import (
	"strings"

	"github.com/miekg/dns"
)

const (
	// DefaultTTL is used when a provider does not report a ttl
	DefaultTTL = 600
	// MaxTTL is the highest ttl accepted by capping providers
	MaxTTL = 3600
)

// Record is the provider independent shape of a DNS record
type Record struct {
	Name     string  `json:"name"`               // relative label, "" is the zone apex
	Type     string  `json:"type"`               // A, AAAA, CNAME, MX, TXT, ...
	Value    string  `json:"value"`              // IP address, target or text
	TTL      int     `json:"ttl"`                // seconds
	Priority *int    `json:"priority,omitempty"` // MX/SRV priority, nil when absent
	Comment  *string `json:"comment,omitempty"`  // provider side note, nil when absent
}

// Normalize returns a copy with the type upper-cased and whitespace trimmed
func (r Record) Normalize() Record {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "@" {
		r.Name = ""
	}
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))
	if r.Priority != nil && *r.Priority == 0 {
		r.Priority = nil
	}
	if r.Comment != nil && *r.Comment == "" {
		r.Comment = nil
	}
	return r
}

// Equal compares two records field by field
func (r Record) Equal(o Record) bool {
	if r.Name != o.Name || r.Type != o.Type || r.Value != o.Value || r.TTL != o.TTL {
		return false
	}
	if (r.Priority == nil) != (o.Priority == nil) || (r.Priority != nil && *r.Priority != *o.Priority) {
		return false
	}
	if (r.Comment == nil) != (o.Comment == nil) || (r.Comment != nil && *r.Comment != *o.Comment) {
		return false
	}
	return true
}

// PriorityValue returns the priority or 0 when absent
func (r Record) PriorityValue() int {
	if r.Priority == nil {
		return 0
	}
	return *r.Priority
}

// CommentValue returns the comment or "" when absent
func (r Record) CommentValue() string {
	if r.Comment == nil {
		return ""
	}
	return *r.Comment
}

// ValidType reports whether t names a known resource record type
func ValidType(t string) bool {
	_, ok := dns.StringToType[strings.ToUpper(strings.TrimSpace(t))]
	return ok
}

// IntPtr returns a pointer to i
func IntPtr(i int) *int {
	return &i
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
