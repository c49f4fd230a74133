package model

// DNSType is reference data naming a record kind (A, AAAA, CNAME, MX, TXT, ...)
type DNSType struct {
	BaseModel
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
}

// TableName specifies the table name for DNSType model
func (DNSType) TableName() string {
	return "dns_types"
}

func (t DNSType) String() string {
	return t.Name
}
