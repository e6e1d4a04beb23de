package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/soapbridge/soapbridge/db"
)

var servicesJSONOutput bool

// servicesCmd lists catalog services; with an ID argument it prints one
// service with its operations.
var servicesCmd = &cobra.Command{
	Use:   "services [id]",
	Short: "List converted services from the catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn := db.InitDb()
		defer conn.Close()

		if len(args) == 1 {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid service ID %q", args[0])
			}
			service, err := conn.GetServiceByID(id)
			if err != nil {
				return err
			}
			if servicesJSONOutput {
				return json.NewEncoder(os.Stdout).Encode(service)
			}
			db.PrintService(*service)
			return nil
		}

		services, err := conn.ListServices()
		if err != nil {
			return err
		}
		if servicesJSONOutput {
			return json.NewEncoder(os.Stdout).Encode(services)
		}
		db.PrintServiceTable(services)
		return nil
	},
}

func init() {
	servicesCmd.Flags().BoolVar(&servicesJSONOutput, "json", false, "Print JSON instead of a table")
	rootCmd.AddCommand(servicesCmd)
}
