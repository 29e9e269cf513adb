package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/phonebook/internal/errors"
	"github.com/Iron-Ham/phonebook/internal/tui"
	"github.com/Iron-Ham/phonebook/internal/watch"
)

var watchPlain bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the records live as the file changes",
	Long: `Show the records live as the file changes.

On a terminal this opens a full-screen view; press q to quit. When stdout
is not a terminal, or with --plain, each change is printed as a block of
records instead.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchPlain, "plain", false, "print changes as text instead of the interactive view")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := openSession("watch")
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	interactive := !watchPlain && term.IsTerminal(int(os.Stdout.Fd()))

	var app *tui.App
	onChange := func(snap watch.Snapshot) { printSnapshot(cmd.OutOrStdout(), snap) }
	if interactive {
		app = tui.New(ctx, s.path)
		onChange = app.Send
	}

	w, err := watch.New(s.store, s.path, onChange,
		watch.WithDebounce(s.cfg.Watch.Debounce()),
		watch.WithLogger(s.logger),
	)
	if err != nil {
		return errors.Wrapf(err, "watch %s", s.path)
	}
	s.logger.Info("watching", "path", w.Path(), "interactive", interactive)

	if !interactive {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	err = app.Run()
	cancel()
	<-done
	return err
}

func printSnapshot(out io.Writer, snap watch.Snapshot) {
	fmt.Fprintf(out, "--- %s  %d record(s)  lock %s\n", snap.At.Format("15:04:05"), len(snap.Records), snap.Lock.State())
	if snap.Err != nil {
		fmt.Fprintf(out, "error: %v\n", snap.Err)
		return
	}
	for _, r := range snap.Records {
		fmt.Fprintln(out, r.String())
	}
}
