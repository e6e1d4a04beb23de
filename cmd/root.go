package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soapbridge/soapbridge/lib"
)

var cfgFile string
var debugLogging bool
var prettyLogs bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "soapbridge",
	Short: "Expose legacy SOAP services as REST APIs and MCP tools",
	Long: `soapbridge converts WSDL definitions into OpenAPI 3.0 documents and
serves a REST bridge in front of the original SOAP endpoints. Converted
services are kept in a catalog and can be registered with an MCP tool
gateway so agents can call them as tools.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Use debug level logging")
	rootCmd.PersistentFlags().BoolVar(&prettyLogs, "pretty", true, "Use pretty logging instead JSON")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if prettyLogs {
			lib.ZeroConsoleAndFileLog("logs.log")
		}
		if debugLogging {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
		return nil
	}
}

// initConfig layers an explicit config file over the defaults when --config
// is passed.
func initConfig() {
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
