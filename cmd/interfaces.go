package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"firestige.xyz/netsniff/internal/netif"
)

var interfacesOutput string

var interfacesCmd = &cobra.Command{
	Use:   "interfaces",
	Short: "List capture interfaces",
	Long: `List the network interfaces a capture can be started on.

The INDEX column is the value passed to "capture -i" and "watch -i". Loopback and
virtual adapters are hidden, as are interfaces with neither an IPv4 address nor
an Up link. Interfaces are re-read on every call.

Examples:
  netsniff interfaces
  netsniff interfaces -o json`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(false)
		if err != nil {
			exitWithError("failed to load config", err)
		}
		ifaces := newEnumerator(cfg).List()
		if err := renderInterfaces(os.Stdout, ifaces, interfacesOutput); err != nil {
			exitWithError("failed to render interfaces", err)
		}
	},
}

func init() {
	interfacesCmd.Flags().StringVarP(&interfacesOutput, "output", "o", "table", "output format: table, json or yaml")
}

func renderInterfaces(w io.Writer, ifaces []netif.Interface, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ifaces)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ifaces); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "INDEX\tNAME\tDISPLAY NAME\tIPV4\tMAC\tSTATUS\tSPEED")
		for i, iface := range ifaces {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				i, iface.Name, iface.DisplayName, iface.IPv4, iface.MAC, iface.Status, formatSpeed(iface.SpeedMbps))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func formatSpeed(mbps int) string {
	if mbps <= 0 {
		return netif.NotAvailable
	}
	return strconv.Itoa(mbps) + " Mbps"
}
