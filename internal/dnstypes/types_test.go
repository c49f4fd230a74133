package dnstypes

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    Record
		expected Record
	}{
		{
			name:     "type is upper-cased",
			input:    Record{Name: "www", Type: "cname", Value: "example.net", TTL: 600},
			expected: Record{Name: "www", Type: "CNAME", Value: "example.net", TTL: 600},
		},
		{
			name:     "@ becomes apex",
			input:    Record{Name: "@", Type: "A", Value: "1.2.3.4", TTL: 300},
			expected: Record{Name: "", Type: "A", Value: "1.2.3.4", TTL: 300},
		},
		{
			name:     "zero priority and empty comment are absent",
			input:    Record{Name: "mail", Type: "MX", Value: "mx.example.com", TTL: 600, Priority: IntPtr(0), Comment: StringPtr("")},
			expected: Record{Name: "mail", Type: "MX", Value: "mx.example.com", TTL: 600},
		},
		{
			name:     "priority and comment are kept",
			input:    Record{Name: "mail", Type: "mx", Value: "mx.example.com", TTL: 600, Priority: IntPtr(10), Comment: StringPtr("primary")},
			expected: Record{Name: "mail", Type: "MX", Value: "mx.example.com", TTL: 600, Priority: IntPtr(10), Comment: StringPtr("primary")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.input.Normalize()
			if !got.Equal(tt.expected) {
				t.Errorf("Normalize() = %+v; want %+v", got, tt.expected)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a := Record{Name: "www", Type: "A", Value: "1.2.3.4", TTL: 600, Priority: IntPtr(5)}
	b := Record{Name: "www", Type: "A", Value: "1.2.3.4", TTL: 600, Priority: IntPtr(5)}
	if !a.Equal(b) {
		t.Error("records with equal pointer targets should be equal")
	}

	b.Priority = nil
	if a.Equal(b) {
		t.Error("records differing in priority presence should not be equal")
	}

	b.Priority = IntPtr(5)
	b.Comment = StringPtr("x")
	if a.Equal(b) {
		t.Error("records differing in comment presence should not be equal")
	}
}

func TestValidType(t *testing.T) {
	for _, typ := range []string{"A", "aaaa", "CNAME", "MX", "TXT", "SRV", "CAA", "NS"} {
		if !ValidType(typ) {
			t.Errorf("ValidType(%q) = false; want true", typ)
		}
	}
	for _, typ := range []string{"", "BOGUS", "A1"} {
		if ValidType(typ) {
			t.Errorf("ValidType(%q) = true; want false", typ)
		}
	}
}
