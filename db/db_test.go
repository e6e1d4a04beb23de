package db

import (
	"os"
	"path/filepath"
	"testing"

	"gorm.io/datatypes"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "soapbridge-db-test")
	if err != nil {
		panic(err)
	}
	conn, err := NewConnection(filepath.Join(dir, "catalog.db"))
	if err != nil {
		panic(err)
	}
	Connection = conn

	code := m.Run()

	conn.Close()
	os.RemoveAll(dir)
	os.Exit(code)
}

// newTestService builds an unsaved service with two operations. Names must be
// unique per test because the catalog database is shared across the package.
func newTestService(name string) *Service {
	return &Service{
		Name:        name,
		WsdlURL:     "http://files.example.com/" + name + ".wsdl",
		Description: "test service " + name,
		OpenAPISpec: datatypes.JSON(`{"openapi":"3.0.0","info":{"title":"` + name + `"}}`),
		Operations: []Operation{
			{
				Name:         "CheckFraudRisk",
				SOAPAction:   "http://insurance.example.com/fraud/CheckFraudRisk",
				InputSchema:  datatypes.JSON(`{"type":"object","properties":{"customerId":{"type":"string"}}}`),
				OutputSchema: datatypes.JSON(`{"type":"object"}`),
			},
			{
				Name:         "GetServiceStats",
				SOAPAction:   "",
				InputSchema:  datatypes.JSON(`{"type":"object","properties":{}}`),
				OutputSchema: datatypes.JSON(`{"type":"object"}`),
			},
		},
	}
}
