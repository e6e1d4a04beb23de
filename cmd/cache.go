package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soapbridge/soapbridge/db"
	"github.com/soapbridge/soapbridge/lib"
	"github.com/soapbridge/soapbridge/pkg/wsdl"
)

// cacheCmd groups WSDL cache inspection and maintenance.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the WSDL document cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached WSDL documents and their last access",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn := db.InitDb()
		defer conn.Close()

		entries, err := conn.ListWSDLCacheEntries()
		if err != nil {
			return err
		}
		db.PrintWSDLCacheTable(entries)

		cache, err := wsdl.NewDocumentCache(
			viper.GetString("wsdl.cache.dir"),
			time.Duration(viper.GetInt("wsdl.cache.ttl"))*time.Second,
		)
		if err != nil {
			return err
		}
		stats := cache.Stats()
		fmt.Printf("%d documents on disk (%d uploads), %s\n",
			stats.Entries+stats.Uploads, stats.Uploads, lib.BytesCountToHumanReadable(stats.SizeBytes))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached WSDL documents and their bookkeeping",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn := db.InitDb()
		defer conn.Close()

		cache, err := wsdl.NewDocumentCache(
			viper.GetString("wsdl.cache.dir"),
			time.Duration(viper.GetInt("wsdl.cache.ttl"))*time.Second,
		)
		if err != nil {
			return err
		}
		documents, err := cache.Clear()
		if err != nil {
			return err
		}
		entries, err := conn.ClearWSDLCache()
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d cached documents and %d catalog entries\n", documents, entries)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
