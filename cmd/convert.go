package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soapbridge/soapbridge/lib"
	"github.com/soapbridge/soapbridge/pkg/openapi"
	"github.com/soapbridge/soapbridge/pkg/wsdl"
)

var (
	convertURL     string
	convertFile    string
	convertName    string
	convertFormat  string
	convertOutput  string
	convertHeaders string
)

// convertCmd converts a WSDL to an OpenAPI document without touching the
// catalog, for offline inspection or piping into other tools.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a WSDL into an OpenAPI 3.0 document",
	RunE: func(cmd *cobra.Command, args []string) error {
		source := convertURL
		if source == "" {
			source = convertFile
		}
		if source == "" {
			return errors.New("provide a WSDL with --url or --file")
		}
		if convertFormat != "json" && convertFormat != "yaml" {
			return fmt.Errorf("invalid format %q, use yaml or json", convertFormat)
		}

		parser := wsdl.NewParser().
			WithTimeout(time.Duration(viper.GetInt("wsdl.request.timeout")) * time.Second).
			WithMaxDepth(viper.GetInt("wsdl.import.max_depth"))
		if convertHeaders != "" {
			parser = parser.WithHeaders(lib.ParseHeadersString(convertHeaders))
		}

		doc, err := parser.Parse(context.Background(), source)
		if err != nil {
			return err
		}
		desc, err := wsdl.NewResolver(doc).Describe()
		if err != nil {
			return err
		}

		result := openapi.Convert(desc, openapi.Options{
			ServiceName:  convertName,
			ProxyBaseURL: viper.GetString("proxy.base_url"),
			WsdlURL:      source,
		})

		encoded, err := json.Marshal(result.Document)
		if err != nil {
			return err
		}

		var content []byte
		if convertFormat == "yaml" {
			content, err = openapi.ToYAML(encoded)
			if err != nil {
				return err
			}
		} else {
			var indented bytes.Buffer
			if err := json.Indent(&indented, encoded, "", "  "); err != nil {
				return err
			}
			content = append(indented.Bytes(), '\n')
		}

		if convertOutput != "" {
			if err := os.WriteFile(convertOutput, content, 0644); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %s (%d operations) to %s\n",
				result.ServiceName, len(result.Operations), convertOutput)
			return nil
		}
		fmt.Print(string(content))
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertURL, "url", "", "WSDL URL to convert")
	convertCmd.Flags().StringVar(&convertFile, "file", "", "Local WSDL file to convert")
	convertCmd.Flags().StringVar(&convertName, "name", "", "Override the service name")
	convertCmd.Flags().StringVar(&convertFormat, "format", "yaml", "Output format: yaml or json")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Write the document to a file instead of stdout")
	convertCmd.Flags().StringVar(&convertHeaders, "headers", "", "Headers to send when fetching the WSDL (ex: --headers \"Authorization:Bearer token,X-Env:staging\")")
	rootCmd.AddCommand(convertCmd)
}
