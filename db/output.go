package db

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/soapbridge/soapbridge/lib"

	"github.com/olekukonko/tablewriter"
)

// PrintMaxURLLength max length a URL can have when printing as table
const PrintMaxURLLength = 65

// PrintMaxDescriptionLength max length a description can have when printing as table
const PrintMaxDescriptionLength = 120

// PrintServiceTable prints a list of converted services as a table
func PrintServiceTable(records []*Service) {
	var tableData [][]string
	for _, record := range records {
		formattedURL := record.WsdlURL
		if len(record.WsdlURL) > PrintMaxURLLength {
			formattedURL = record.WsdlURL[0:PrintMaxURLLength] + "..."
		}

		registered := "no"
		if record.GatewayRegistered {
			registered = "yes"
		}

		tableData = append(tableData, []string{
			record.ID.String(),
			record.Name,
			strconv.Itoa(len(record.Operations)),
			registered,
			formattedURL,
		})
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Operations", "Gateway", "WSDL URL"})
	table.SetBorder(true)
	table.AppendBulk(tableData)
	table.Render()
}

// PrintService prints a service record with its operations
func PrintService(service Service) {
	var sb strings.Builder

	sb.WriteString(lib.Colorize("Name: ", lib.Blue) + service.Name + "\n")
	sb.WriteString(lib.Colorize("ID: ", lib.Blue) + service.ID.String() + "\n")
	sb.WriteString(lib.Colorize("WSDL URL: ", lib.Blue) + service.WsdlURL + "\n")

	if service.Description != "" {
		formattedDescription := service.Description
		if len(formattedDescription) > PrintMaxDescriptionLength {
			formattedDescription = formattedDescription[0:PrintMaxDescriptionLength] + "..."
		}
		sb.WriteString(lib.Colorize("Description: ", lib.Blue) + formattedDescription + "\n")
	}

	sb.WriteString(lib.Colorize("Gateway registered: ", lib.Blue) + strconv.FormatBool(service.GatewayRegistered) + "\n")
	if service.GatewayRegistered {
		if service.GatewayServerUUID != nil {
			sb.WriteString(lib.Colorize("Gateway server: ", lib.Blue) + service.GatewayServerUUID.String() + "\n")
		}
		if service.GatewayMcpEndpoint != nil {
			sb.WriteString(lib.Colorize("MCP endpoint: ", lib.Blue) + *service.GatewayMcpEndpoint + "\n")
		}
	}

	sb.WriteString(lib.Colorize("Operations: ", lib.Blue))
	for _, operation := range service.Operations {
		sb.WriteString("\n- " + lib.Colorize(operation.Name, lib.Cyan))
		if operation.SOAPAction != "" {
			sb.WriteString(" (" + operation.SOAPAction + ")")
		}
		if operation.GatewayToolID != nil {
			sb.WriteString(" " + lib.Colorize("tool="+*operation.GatewayToolID, lib.Yellow))
		}
	}
	sb.WriteString("\n")

	fmt.Print(sb.String())
}

// PrintWSDLCacheTable prints the WSDL cache bookkeeping as a table
func PrintWSDLCacheTable(records []*WSDLCacheEntry) {
	var tableData [][]string
	for _, record := range records {
		formattedURL := record.WsdlURL
		if len(record.WsdlURL) > PrintMaxURLLength {
			formattedURL = record.WsdlURL[0:PrintMaxURLLength] + "..."
		}
		tableData = append(tableData, []string{
			formattedURL,
			record.ServiceName,
			record.LastAccessed.Format("2006-01-02 15:04:05"),
		})
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"WSDL URL", "Service", "Last Accessed"})
	table.SetBorder(true)
	table.AppendBulk(tableData)
	table.Render()
}
