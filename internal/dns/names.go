package dns

import "strings"

// ToFQDN converts a relative DNS name to a Fully Qualified Domain Name (FQDN)
//
// Rules:
// - zone = "example.com"
// - name = ""     -> fqdn = "example.com"
// - name = "@"    -> fqdn = "example.com"
// - name = "www"  -> fqdn = "www.example.com"
// - name = "a.b"  -> fqdn = "a.b.example.com"
//
// If name is already a FQDN (contains the zone), it will be returned as-is.
func ToFQDN(zone string, name string) string {
	zone = strings.TrimSuffix(strings.TrimSpace(zone), ".")
	name = strings.TrimSuffix(strings.TrimSpace(name), ".")

	if name == "" || name == "@" {
		return zone
	}

	if strings.HasSuffix(name, "."+zone) || name == zone {
		return name
	}

	return name + "." + zone
}

// RelativeName strips the zone suffix from a provider reported name
//
// Rules:
// - zone = "example.com"
// - name = "example.com"      -> ""
// - name = "www.example.com"  -> "www"
// - name = "a.b.example.com"  -> "a.b"
// - name = "www.example.com." -> "www" (trailing dot removed)
// - name = "@"                -> ""
// - name = "www"              -> "www"
//
// Comparison against the zone is case-insensitive; the label keeps its case.
func RelativeName(name, zone string) string {
	zone = strings.TrimSuffix(strings.TrimSpace(zone), ".")
	name = strings.TrimSuffix(strings.TrimSpace(name), ".")

	if name == "" || name == "@" || strings.EqualFold(name, zone) {
		return ""
	}

	suffix := "." + zone
	if len(name) > len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix) {
		return name[:len(name)-len(suffix)]
	}

	return name
}

// ZoneFor picks the longest zone in zones that fqdn belongs to.
// It returns "" when none matches.
func ZoneFor(fqdn string, zones []string) string {
	fqdn = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(fqdn), "."))
	best := ""
	for _, zone := range zones {
		z := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(zone), "."))
		if z == "" {
			continue
		}
		if (fqdn == z || strings.HasSuffix(fqdn, "."+z)) && len(z) > len(best) {
			best = zone
		}
	}
	return best
}
