package db

import (
	"time"

	"gorm.io/gorm/clause"
)

// WSDLCacheEntry is advisory bookkeeping for the on-disk WSDL cache: which
// documents have been fetched and when a runtime call last touched them.
// Losing a row never breaks a request.
type WSDLCacheEntry struct {
	WsdlURL      string    `gorm:"primaryKey" json:"wsdl_url"`
	ServiceName  string    `gorm:"size:255;index" json:"service_name"`
	LastAccessed time.Time `json:"last_accessed"`
}

func (WSDLCacheEntry) TableName() string {
	return "wsdl_cache"
}

// TouchWSDLAccess upserts the cache row and bumps its last_accessed stamp.
func (d *DatabaseConnection) TouchWSDLAccess(wsdlURL, serviceName string) error {
	entry := WSDLCacheEntry{
		WsdlURL:      wsdlURL,
		ServiceName:  serviceName,
		LastAccessed: time.Now(),
	}
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wsdl_url"}},
		DoUpdates: clause.AssignmentColumns([]string{"service_name", "last_accessed"}),
	}).Create(&entry).Error
}

func (d *DatabaseConnection) ListWSDLCacheEntries() ([]*WSDLCacheEntry, error) {
	var entries []*WSDLCacheEntry
	err := d.db.Order("last_accessed DESC").Find(&entries).Error
	return entries, err
}

func (d *DatabaseConnection) CountWSDLCacheEntries() (int64, error) {
	var count int64
	err := d.db.Model(&WSDLCacheEntry{}).Count(&count).Error
	return count, err
}

// ClearWSDLCache removes every cache row and reports how many were dropped.
func (d *DatabaseConnection) ClearWSDLCache() (int64, error) {
	result := d.db.Where("1 = 1").Delete(&WSDLCacheEntry{})
	return result.RowsAffected, result.Error
}
