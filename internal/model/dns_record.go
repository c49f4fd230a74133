package model

import (
	"fmt"

	"go_gizmo/internal/dnstypes"
)

// DNSRecord is the desired state of one record in a domain.
// Name "" is the zone apex; it is stored as an empty string so the
// identity index below also covers apex records.
type DNSRecord struct {
	BaseModel
	DomainID  int     `gorm:"uniqueIndex:idx_dns_records_identity;not null" json:"domain_id"`
	Domain    Domain  `gorm:"foreignKey:DomainID;constraint:OnDelete:CASCADE" json:"-"`
	Name      string  `gorm:"type:varchar(255);uniqueIndex:idx_dns_records_identity;not null;default:''" json:"name"`
	DNSTypeID int     `gorm:"uniqueIndex:idx_dns_records_identity;not null" json:"dns_type_id"`
	DNSType   DNSType `gorm:"foreignKey:DNSTypeID;constraint:OnDelete:CASCADE" json:"dns_type"`
	Value     string  `gorm:"type:varchar(255);uniqueIndex:idx_dns_records_identity;not null" json:"value"`
	TTL       int     `gorm:"default:600" json:"ttl"`
	Priority  *int    `gorm:"uniqueIndex:idx_dns_records_identity" json:"priority"`
	Comment   *string `gorm:"type:text" json:"comment"`
	IsActive  bool    `gorm:"default:true" json:"is_active"`
}

// TableName specifies the table name for DNSRecord model
func (DNSRecord) TableName() string {
	return "dns_records"
}

// Canonical converts the row into the provider independent record
func (r DNSRecord) Canonical() dnstypes.Record {
	ttl := r.TTL
	if ttl == 0 {
		ttl = dnstypes.DefaultTTL
	}
	return dnstypes.Record{
		Name:     r.Name,
		Type:     r.DNSType.Name,
		Value:    r.Value,
		TTL:      ttl,
		Priority: r.Priority,
		Comment:  r.Comment,
	}.Normalize()
}

// Label renders TYPE:fqdn, e.g. "A:www.example.com"
func (r DNSRecord) Label() string {
	if r.Name != "" {
		return fmt.Sprintf("%s:%s.%s", r.DNSType.Name, r.Name, r.Domain.Domain)
	}
	return fmt.Sprintf("%s:%s", r.DNSType.Name, r.Domain.Domain)
}
