package db

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go_gizmo/internal/dnstypes"
	"go_gizmo/internal/model"
)

// DefaultDNSTypes are the record kinds seeded as reference data
var DefaultDNSTypes = []string{"A", "AAAA", "CNAME", "MX", "TXT", "NS", "SRV", "CAA", "TLSA", "HTTPS", "SVCB"}

// DefaultProviders maps adapter names to the vendor domain
var DefaultProviders = map[string]string{
	"porkbun":    "porkbun.com",
	"cloudflare": "cloudflare.com",
}

// ValidateSeed checks the seed data before it touches the database
func ValidateSeed() error {
	for _, name := range DefaultDNSTypes {
		if !dnstypes.ValidType(name) {
			return fmt.Errorf("seed DNS type %q is not a known RR type", name)
		}
	}
	return nil
}

// Seed inserts the reference data; existing rows are kept
func Seed(gdb *gorm.DB, logger *logrus.Entry) error {
	if err := ValidateSeed(); err != nil {
		return err
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		for _, name := range DefaultDNSTypes {
			t := model.DNSType{Name: name}
			if err := tx.Where("name = ?", name).FirstOrCreate(&t).Error; err != nil {
				return fmt.Errorf("seed DNS type %s: %w", name, err)
			}
		}
		for name, domain := range DefaultProviders {
			p := model.Provider{Name: name, Domain: domain}
			if err := tx.Where("name = ?", name).FirstOrCreate(&p).Error; err != nil {
				return fmt.Errorf("seed provider %s: %w", name, err)
			}
		}

		logger.WithFields(logrus.Fields{
			"dns_types": len(DefaultDNSTypes),
			"providers": len(DefaultProviders),
		}).Info("Reference data seeded")
		return nil
	})
}
