package model

import "fmt"

// Account holds one user's credentials at one provider
type Account struct {
	BaseModel
	UserID       int      `gorm:"index;not null" json:"user_id"`
	User         *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ProviderID   int      `gorm:"uniqueIndex:idx_accounts_login_provider;not null" json:"provider_id"`
	Provider     Provider `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"provider"`
	Login        string   `gorm:"type:varchar(128);uniqueIndex:idx_accounts_login_provider;not null" json:"login"`
	APIKey       string   `gorm:"type:varchar(255)" json:"-"`
	SecretAPIKey string   `gorm:"type:varchar(255)" json:"-"`
}

// TableName specifies the table name for Account model
func (Account) TableName() string {
	return "accounts"
}

func (a Account) String() string {
	return fmt.Sprintf("%s@%s", a.Login, a.Provider.Domain)
}
