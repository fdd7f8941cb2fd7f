package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/export"
	"firestige.xyz/netsniff/internal/log"
	"firestige.xyz/netsniff/internal/store"
)

var (
	captureIndex    int
	captureFilter   string
	captureCount    int
	captureDuration time.Duration
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture and print packet summaries",
	Long: `Capture on the interface at INDEX (see "netsniff interfaces") and print one
line per decoded frame. On exit the protocol distribution is printed.

The capture ends on SIGINT/SIGTERM, after --count records or after --duration.
When export is enabled in the config, records are also published to NATS or
Kafka.

Examples:
  netsniff capture -i 0
  netsniff capture -i 1 -f "tcp port 443" --count 100
  netsniff capture -i 0 --duration 30s -c netsniff.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCapture(); err != nil {
			exitWithError("capture failed", err)
		}
	},
}

func init() {
	captureCmd.Flags().IntVarP(&captureIndex, "interface", "i", 0, "interface index")
	captureCmd.Flags().StringVarP(&captureFilter, "filter", "f", "", "BPF filter expression")
	captureCmd.Flags().IntVarP(&captureCount, "count", "n", 0, "stop after this many records (0 = unlimited)")
	captureCmd.Flags().DurationVarP(&captureDuration, "duration", "d", 0, "stop after this long (0 = until interrupted)")
}

func runCapture() error {
	e, err := bootstrap(false, false)
	if err != nil {
		return err
	}
	defer e.shutdown()

	var pub export.Publisher
	if e.cfg.Export.Enabled {
		if pub, err = export.New(e.cfg.Export); err != nil {
			return fmt.Errorf("failed to create exporter: %w", err)
		}
		defer func() {
			if err := pub.Close(); err != nil {
				log.GetLogger().WithError(err).Warn("exporter close failed")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if captureDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, captureDuration)
		defer cancel()
	}

	if err := e.sniffer.Start(captureIndex, captureFilter); err != nil {
		return err
	}

	p := &printer{w: os.Stdout, publisher: pub, limit: captureCount}
	ticker := time.NewTicker(e.cfg.UI.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.sniffer.Stop()
			p.flush(context.Background(), e.sniffer.DrainNew())
			return writeProtocolCounts(os.Stdout, e.sniffer.ProtocolCounts())
		case <-ticker.C:
			if done := p.flush(ctx, e.sniffer.DrainNew()); done || !e.sniffer.IsCapturing() {
				e.sniffer.Stop()
				return writeProtocolCounts(os.Stdout, e.sniffer.ProtocolCounts())
			}
		}
	}
}

// printer writes drained records and forwards them to the exporter.
type printer struct {
	w         io.Writer
	publisher export.Publisher
	limit     int
	printed   int
}

// flush prints records and reports whether the record limit was reached.
func (p *printer) flush(ctx context.Context, records []core.PacketRecord) bool {
	if p.limit > 0 && p.printed+len(records) > p.limit {
		records = records[:p.limit-p.printed]
	}
	for _, rec := range records {
		p.printed++
		fmt.Fprintln(p.w, formatRecord(p.printed, rec))
	}
	if p.publisher != nil && len(records) > 0 {
		if err := p.publisher.Publish(ctx, records); err != nil {
			log.GetLogger().WithError(err).Warn("export failed")
		}
	}
	return p.limit > 0 && p.printed >= p.limit
}

func formatRecord(n int, rec core.PacketRecord) string {
	return fmt.Sprintf("%-6d %s  %-15s -> %-15s %-8s %5d  %s",
		n, rec.Time, rec.Source, rec.Destination, rec.Protocol, rec.Length, rec.Info)
}

func writeProtocolCounts(w io.Writer, counts []store.ProtocolCount) error {
	total := 0
	for _, c := range counts {
		total += c.Count
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nPROTOCOL\tCOUNT\tSHARE")
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", c.Protocol, c.Count, 100*float64(c.Count)/float64(total))
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t\n", total)
	return tw.Flush()
}
