// Root of command-line argument parsing.
// This file was based off the standard cobra template, see
// https://github.com/spf13/cobra
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/versionedstorage/vss-go/pkg/vssmgr"
)

var cfgFile string
var storeID string
var endpoint string
var verbose bool

var vssManager *vssmgr.VssManager

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vss",
	Short: "Client for the Versioned Storage Service",
	Long: `Get, put, delete and list versioned key-value pairs on a hosted VSS
server. Writes can be made conditional on an expected version for optimistic
concurrency control.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		mgrArgs := map[string]interface{}{}
		if cfgFile != "" {
			mgrArgs["config-file"] = cfgFile
		}
		if endpoint != "" {
			mgrArgs["endpoint"] = endpoint
		}
		if verbose {
			logger := logrus.New()
			logger.SetLevel(logrus.DebugLevel)
			mgrArgs["logger"] = logger
		}

		var err error
		vssManager, err = vssmgr.NewManager(mgrArgs)
		if err != nil {
			fmt.Printf("Failed to initialize vss manager: %v\n", err)
			os.Exit(1)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by vss.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if vssManager == nil || vssManager.Logger == nil {
			fmt.Printf("%v\n", err)
		} else {
			vssManager.Logger.Error(err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is configs/vss.yaml)")
	rootCmd.PersistentFlags().StringVarP(&storeID, "store", "s", "", "store to operate on (required)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "VSS server base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func requireStore() error {
	if storeID == "" {
		return fmt.Errorf("a store must be selected with --store")
	}
	return nil
}
