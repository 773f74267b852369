package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/censusplot/am"
	"github.com/teranos/censusplot/chart"
	"github.com/teranos/censusplot/errors"
	"github.com/teranos/censusplot/logger"
	"github.com/teranos/censusplot/render"
)

func newPageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Write the interactive HTML page",
		Long: `Write a self-contained HTML page with all nine frames precomputed.
Clicking an axis label in the browser animates to the new selection.

With --watch the page is regenerated whenever the data file, the narrative
file or am.toml changes. The page keeps the selection it opens on.

Examples:
  censusplot page                       # write output.page
  censusplot page -o site/index.html -x age
  censusplot page --watch`,
		Args: cobra.NoArgs,
		RunE: runPage,
	}
	addSelectionFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Output HTML file (default: output.page)")
	cmd.Flags().BoolP("watch", "w", false, "Regenerate when inputs change")
	return cmd
}

func runPage(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	sel, err := selectionFor(cmd, s.cfg)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = s.cfg.Output.Page
	}

	applier := chart.NewPageApplier(out, logger.Logger)
	loop, err := render.NewLoop(s.builder, render.LoopConfig{Initial: sel, Duration: s.cfg.TransitionDuration()}, applier, logger.Logger)
	if err != nil {
		return err
	}
	if _, err := loop.Render(cmd.Context()); err != nil {
		return err
	}
	success(cmd, "Wrote %s (%s)", out, sel)

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchPage(ctx, cmd, s, loop, out)
}

// watchPage rebuilds the loop from fresh config and data on every debounced change until ctx ends
func watchPage(ctx context.Context, cmd *cobra.Command, s *session, loop *render.Loop, out string) error {
	watcher, err := am.NewWatcher([]string{s.dataPath, s.narrativePath, am.ActiveConfigPath()}, logger.Logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	log := logger.ComponentLogger("page.watch")
	watcher.OnReload(func(changed []string) error {
		am.Reset()
		next, err := openSession(cmd)
		if err != nil {
			// Keep serving the last good page
			return err
		}
		if _, err := loop.Rebuild(ctx, next.builder); err != nil {
			if errors.Is(err, render.ErrSuperseded) {
				return nil
			}
			return err
		}
		if next.dataPath != s.dataPath {
			log.Warnw("Data path changed; restart to watch the new file", logger.FieldFile, next.dataPath)
		}
		success(cmd, "Rebuilt %s", out)
		return nil
	})
	watcher.Start()

	info(cmd, "Watching %d files, Ctrl-C to stop", len(watcher.Files()))
	<-ctx.Done()
	return nil
}
