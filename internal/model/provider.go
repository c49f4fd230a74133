package model

// Provider names a DNS hosting vendor. Name selects the adapter in the provider registry.
type Provider struct {
	BaseModel
	Name   string `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Domain string `gorm:"type:varchar(255);uniqueIndex;not null" json:"domain"`
}

// TableName specifies the table name for Provider model
func (Provider) TableName() string {
	return "providers"
}

func (p Provider) String() string {
	return p.Name
}
