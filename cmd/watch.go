package cmd

import (
	"github.com/spf13/cobra"

	"firestige.xyz/netsniff/internal/i18n"
	"firestige.xyz/netsniff/internal/tui"
)

var (
	watchIndex  int
	watchFilter string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Interactive capture view",
	Long: `Open a terminal UI with the live packet table and protocol distribution.

Keys: s start, x stop, c clear, l switch English/Persian, q quit.
Console logging is disabled while the UI runs; enable log.outputs.file to keep logs.`,
	Run: func(cmd *cobra.Command, args []string) {
		e, err := bootstrap(true, false)
		if err != nil {
			exitWithError("failed to initialize", err)
		}
		defer e.shutdown()

		labels, err := i18n.New(e.cfg.UI.Language)
		if err != nil {
			exitWithError("invalid ui.language", err)
		}

		if err := tui.Run(e.sniffer, labels, tui.Options{
			Index:   watchIndex,
			Filter:  watchFilter,
			Refresh: e.cfg.UI.RefreshInterval,
			MaxRows: e.store.Capacity(),
		}); err != nil {
			exitWithError("terminal UI failed", err)
		}
	},
}

func init() {
	watchCmd.Flags().IntVarP(&watchIndex, "interface", "i", 0, "interface index")
	watchCmd.Flags().StringVarP(&watchFilter, "filter", "f", "", "BPF filter expression")
}
