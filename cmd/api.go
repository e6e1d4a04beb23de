package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soapbridge/soapbridge/api"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Starts the API server",
	Run: func(cmd *cobra.Command, args []string) {
		api.StartAPI()
	},
}

func init() {
	apiCmd.Flags().Int("port", 8080, "Port for the API to listen on")
	apiCmd.Flags().String("host", "0.0.0.0", "Host interface for the API to bind")
	viper.BindPFlag("api.listen.port", apiCmd.Flags().Lookup("port"))
	viper.BindPFlag("api.listen.host", apiCmd.Flags().Lookup("host"))
	rootCmd.AddCommand(apiCmd)
}
