package db

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Operation is one SOAP operation of a converted service. Input and output
// schemas are stored as the JSON Schema bytes derived from the WSDL types.
type Operation struct {
	BaseModel
	ServiceID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"service_id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	SOAPAction    string         `gorm:"column:soap_action" json:"soap_action"`
	PortName      string         `gorm:"size:255" json:"port_name"`
	InputSchema   datatypes.JSON `gorm:"type:json" json:"input_schema"`
	OutputSchema  datatypes.JSON `gorm:"type:json" json:"output_schema"`
	GatewayToolID *string        `json:"gateway_tool_id"`
}

// FindOperation looks up one operation of a service by name.
func (d *DatabaseConnection) FindOperation(serviceID uuid.UUID, name string) (*Operation, error) {
	var operation Operation
	err := d.db.Where("service_id = ? AND name = ?", serviceID, name).
		Order("id ASC").
		First(&operation).Error
	if err != nil {
		return nil, err
	}
	return &operation, nil
}

// SetOperationToolID stores the gateway tool ID created for an operation.
func (d *DatabaseConnection) SetOperationToolID(operationID uint, toolID string) error {
	return d.db.Model(&Operation{}).
		Where("id = ?", operationID).
		Update("gateway_tool_id", toolID).Error
}
