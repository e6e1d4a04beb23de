package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service is one converted SOAP service. The stored OpenAPI document is kept
// as the exact bytes produced at conversion time so re-serving it never
// reorders keys.
type Service struct {
	BaseUUIDModel
	Name        string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	WsdlURL     string `gorm:"not null" json:"wsdl_url"`
	Description string `json:"description"`
	// Plain json rather than jsonb: jsonb rewrites key order, and the stored
	// document must be served back byte for byte.
	OpenAPISpec datatypes.JSON `gorm:"type:json;not null" json:"openapi_spec,omitempty"`

	GatewayRegistered   bool       `gorm:"default:false;index" json:"gateway_registered"`
	GatewayServerUUID   *uuid.UUID `gorm:"type:uuid" json:"gateway_server_uuid"`
	GatewayMcpEndpoint  *string    `json:"gateway_mcp_endpoint"`
	GatewayRegisteredAt *time.Time `json:"gateway_registered_at"`

	Operations []Operation `json:"operations,omitempty"`
}

func preloadOperations(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Operations", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("operations.id ASC")
	})
}

// CreateService inserts the service together with its operations. A name
// collision surfaces as gorm.ErrDuplicatedKey; when two requests race on the
// same name, the unique index guarantees exactly one of them wins.
func (d *DatabaseConnection) CreateService(service *Service) error {
	return d.db.Create(service).Error
}

func (d *DatabaseConnection) GetServiceByName(name string) (*Service, error) {
	var service Service
	err := preloadOperations(d.db).Where("name = ?", name).First(&service).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (d *DatabaseConnection) GetServiceByID(id uuid.UUID) (*Service, error) {
	var service Service
	err := preloadOperations(d.db).Where("id = ?", id).First(&service).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (d *DatabaseConnection) ListServices() ([]*Service, error) {
	var services []*Service
	err := preloadOperations(d.db).Order("created_at ASC").Find(&services).Error
	return services, err
}

func (d *DatabaseConnection) CountServices() (int64, error) {
	var count int64
	err := d.db.Model(&Service{}).Count(&count).Error
	return count, err
}

// DeleteService removes the service and its operations in one transaction.
// The explicit operation delete keeps the cascade portable across sqlite and
// postgres.
func (d *DatabaseConnection) DeleteService(id uuid.UUID) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", id).Delete(&Operation{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&Service{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// MarkServiceRegistered records a successful gateway registration. The update
// is conditional on gateway_registered being false so concurrent registration
// attempts resolve to a single winner; it returns false when another request
// already holds the registration.
func (d *DatabaseConnection) MarkServiceRegistered(id uuid.UUID, serverUUID uuid.UUID, mcpEndpoint string) (bool, error) {
	now := time.Now()
	result := d.db.Model(&Service{}).
		Where("id = ? AND gateway_registered = ?", id, false).
		Updates(map[string]interface{}{
			"gateway_registered":    true,
			"gateway_server_uuid":   serverUUID,
			"gateway_mcp_endpoint":  mcpEndpoint,
			"gateway_registered_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ClearServiceRegistration wipes the gateway binding after an unregister or a
// cascading delete cleanup.
func (d *DatabaseConnection) ClearServiceRegistration(id uuid.UUID) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&Service{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"gateway_registered":    false,
				"gateway_server_uuid":   nil,
				"gateway_mcp_endpoint":  nil,
				"gateway_registered_at": nil,
			}).Error
		if err != nil {
			return err
		}
		return tx.Model(&Operation{}).
			Where("service_id = ?", id).
			Update("gateway_tool_id", nil).Error
	})
}
