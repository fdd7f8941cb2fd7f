// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "netsniff",
	Short: "netsniff - live packet capture and protocol summary",
	Long: `netsniff captures frames from a network interface, decodes Ethernet, IPv4,
TCP, UDP, ICMP and ARP headers into one-line summaries and keeps the most recent
records in memory together with a protocol distribution.

Front ends:
  - interfaces: list the interfaces a capture can be started on
  - capture:    print records as they arrive
  - watch:      interactive terminal UI
  - serve:      HTTP control API and Prometheus metrics`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (defaults and NETSNIFF_* env vars when empty)")

	// Add subcommands
	rootCmd.AddCommand(interfacesCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
