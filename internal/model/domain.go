package model

// Domain represents a zone owned by exactly one account
type Domain struct {
	BaseModel
	Domain         string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"domain"`
	AccountID      int     `gorm:"index;not null" json:"account_id"`
	Account        Account `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
	ProviderZoneID string  `gorm:"type:varchar(128)" json:"-"` // cached provider zone id, not exposed in API
}

// TableName specifies the table name for Domain model
func (Domain) TableName() string {
	return "domains"
}

func (d Domain) String() string {
	return d.Domain
}
