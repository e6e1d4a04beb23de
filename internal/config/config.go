package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// LoadConfig reads the optional config file and applies defaults. Every key
// can also be set through an environment variable of the same name with dots
// replaced by underscores (API_LISTEN_PORT overrides api.listen.port).
func LoadConfig() {
	viper.SetConfigName("config")           // name of config file (without extension)
	viper.SetConfigType("yaml")             // REQUIRED if the config file does not have the extension in the name
	viper.AddConfigPath("/etc/soapbridge/") // path to look for the config file in
	viper.AddConfigPath(".")                // optionally look for config in the working directory
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; environment and defaults still apply
			log.Debug().Msg("Config file not found")
		} else {
			// Config file was found but another error was produced
			log.Panic().Err(err).Msg("Fatal error reading config file")
		}
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Short env names kept from earlier deployments alongside the dotted form
	viper.BindEnv("api.listen.port", "API_LISTEN_PORT", "PORT")
	viper.BindEnv("api.listen.host", "API_LISTEN_HOST", "HOST")
	viper.BindEnv("api.auth.key", "API_AUTH_KEY", "API_KEY")

	SetDefaultConfig()
}

func SetDefaultConfig() {
	// Database
	viper.SetDefault("database.url", "soapbridge.db")

	// API
	viper.SetDefault("api.listen.host", "0.0.0.0")
	viper.SetDefault("api.listen.port", 8080)
	viper.SetDefault("api.cors.origins", "*")
	viper.SetDefault("api.auth.key", "")
	viper.SetDefault("api.metrics.enabled", false)

	// Base URL advertised to the gateway in generated tool URLs
	viper.SetDefault("proxy.base_url", "http://localhost:8080")

	// WSDL loading
	viper.SetDefault("wsdl.cache.dir", defaultWSDLCacheDir())
	viper.SetDefault("wsdl.cache.ttl", 86400)
	viper.SetDefault("wsdl.request.timeout", 30)
	viper.SetDefault("wsdl.import.max_depth", 10)

	// Upstream SOAP calls
	viper.SetDefault("soap.call.timeout", 60)

	// MCP gateway
	viper.SetDefault("gateway.url", "")
	viper.SetDefault("gateway.token", "")
	viper.SetDefault("gateway.timeout", 30)
}

// defaultWSDLCacheDir places fetched documents under the user cache
// directory, falling back to a relative directory when none is resolvable.
func defaultWSDLCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "soapbridge", "wsdl")
	}
	return "wsdl_cache"
}
