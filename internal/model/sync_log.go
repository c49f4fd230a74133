package model

import (
	"time"

	"gorm.io/datatypes"
)

// SyncOperation names the provider call recorded by a SyncLog
type SyncOperation string

const (
	SyncOperationList   SyncOperation = "list"
	SyncOperationCreate SyncOperation = "create"
	SyncOperationUpdate SyncOperation = "update"
	SyncOperationDelete SyncOperation = "delete"
	SyncOperationPull   SyncOperation = "pull"
)

// SyncLog records the outcome of one provider round trip
type SyncLog struct {
	ID          int            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	DomainID    int            `gorm:"column:domain_id;index;not null" json:"domain_id"`
	DNSRecordID *int           `gorm:"column:dns_record_id;index" json:"dns_record_id"`
	Operation   SyncOperation  `gorm:"column:operation;type:varchar(16);not null" json:"operation"`
	OK          bool           `gorm:"column:ok;not null" json:"ok"`
	StatusCode  int            `gorm:"column:status_code" json:"status_code"`
	Message     string         `gorm:"column:message;type:varchar(255)" json:"message"`
	Response    datatypes.JSON `gorm:"column:response;type:json" json:"response"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for SyncLog model
func (SyncLog) TableName() string {
	return "sync_logs"
}
