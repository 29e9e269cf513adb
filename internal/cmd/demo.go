package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/phonebook/internal/demo"
)

var (
	demoFast    bool
	demoNoReset bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run two readers and two writers against a seeded phonebook",
	Long: `Run the four-worker scenario against the configured record file.

The file is cleared and seeded with three records, then four workers run
concurrently:

  reader-1  looks up phones by name         (demo.name_reader)
  reader-2  looks up names by phone         (demo.phone_reader)
  writer-1  adds records                    (demo.inserter)
  writer-2  removes records by name         (demo.remover)

Each worker pauses between operations; pacing and iteration counts come
from the demo section of the config. Use --fast to drop every pause.

--timeout bounds each operation's wait for the lock, not the whole run; an
operation that times out counts as a failure and its worker carries on.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().BoolVar(&demoFast, "fast", false, "run without pauses between operations")
	demoCmd.Flags().BoolVar(&demoNoReset, "no-reset", false, "keep existing records instead of clearing the file first")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	s, err := openSession("cli")
	if err != nil {
		return err
	}
	defer s.Close()

	cfg := s.cfg.Demo
	if demoFast {
		cfg.NameReader.DelayMs = 0
		cfg.PhoneReader.DelayMs = 0
		cfg.Inserter.DelayMs = 0
		cfg.Remover.DelayMs = 0
	}
	if demoNoReset {
		cfg.Reset = false
	}

	out := cmd.OutOrStdout()
	var mu sync.Mutex
	runner := demo.NewRunner(s.store, cfg,
		demo.WithLogger(s.logger),
		demo.WithOpTimeout(lockTimeout),
		demo.WithEventHandler(func(ev demo.Event) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(out, "%s  %s\n", ev.At.Format("15:04:05.000"), ev)
		}),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	summary, err := runner.Run(ctx)
	printSummary(out, summary)
	return err
}

func printSummary(w io.Writer, s demo.Summary) {
	fmt.Fprintf(w, "\nSeeded %d record(s); finished in %s\n", s.Seeded, s.Duration.Round(time.Millisecond))
	if len(s.Workers) == 0 {
		return
	}
	fmt.Fprintf(w, "%-10s %5s %5s %6s %8s %8s\n", "WORKER", "OPS", "HITS", "MISSES", "AFFECTED", "FAILURES")
	for _, r := range s.Workers {
		fmt.Fprintf(w, "%-10s %5d %5d %6d %8d %8d\n", r.Worker, r.Ops, r.Hits, r.Misses, r.Affected, r.Failures)
	}
}
