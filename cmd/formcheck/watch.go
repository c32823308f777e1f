package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dshills/rehance/internal/config/watcher"
	"github.com/dshills/rehance/internal/metrics"
	"github.com/dshills/rehance/internal/state"
)

type watchOptions struct {
	sets        []string
	debounce    time.Duration
	metricsAddr string
}

func newWatchCmd(a *app) *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch SCHEMA VALUES",
		Short: "Revalidate whenever the schema or values change",
		Long: `Validate once, then again every time SCHEMA or VALUES (or a file they
include) is written. Runs until interrupted.

With --metrics-addr the metrics of the most recent form are served on
/metrics.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, sourceArgs(args, opts.sets), opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Set a field value (path=value, repeatable)")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 100*time.Millisecond, "Wait this long for writes to settle")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve metrics on this address")
	return cmd
}

// checker rebuilds and validates the form on demand and keeps the latest
// tree for the metrics endpoint.
type checker struct {
	app *app
	src formSource

	// w, when set, follows the files of the latest form.
	w       *watcher.Watcher
	watched map[string]bool

	mu      sync.Mutex
	current *form
}

func newChecker(a *app, src formSource, w *watcher.Watcher) *checker {
	return &checker{app: a, src: src, w: w, watched: map[string]bool{}}
}

// run rebuilds the form and writes its report. Load errors are reported
// and the previous form, and the files it watches, are kept.
func (c *checker) run() {
	f, err := c.app.load(c.src)
	if err != nil {
		fmt.Fprintf(c.app.stdout, "error: %v\n", err)
		return
	}
	r := check(f.root)
	if err := r.writeText(c.app.stdout); err != nil {
		c.app.logger.Warn("write report", "error", err)
	}
	c.follow(f.files)

	c.mu.Lock()
	prev := c.current
	c.current = f
	c.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}

// follow makes the watch list the schema and values paths plus files:
// includes added since the last load are watched, dropped ones released.
func (c *checker) follow(files []string) {
	if c.w == nil {
		return
	}
	want := map[string]bool{}
	for _, path := range append([]string{c.src.schemaPath, c.src.valuesPath}, files...) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		want[path] = true
	}
	for path := range want {
		if c.watched[path] {
			continue
		}
		if err := c.w.Watch(path); err != nil {
			c.app.logger.Warn("watch", "path", path, "error", err)
			continue
		}
		c.watched[path] = true
	}
	for path := range c.watched {
		if want[path] {
			continue
		}
		if err := c.w.Unwatch(path); err != nil {
			c.app.logger.Warn("unwatch", "path", path, "error", err)
		}
		delete(c.watched, path)
	}
}

func (c *checker) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.Close()
		c.current = nil
	}
}

// Describe sends nothing, which makes the checker an unchecked collector.
func (c *checker) Describe(chan<- *prometheus.Desc) {}

// Collect reports the metrics of the latest form.
func (c *checker) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	var root *state.TrieNode
	if c.current != nil {
		root = c.current.root
	}
	c.mu.Unlock()
	if root == nil {
		return
	}
	metrics.NewCollector(metricsNamespace, root.Events(), root).Collect(ch)
}

func (a *app) watch(ctx context.Context, src formSource, opts watchOptions) error {
	w := watcher.New(watcher.WithDebounce(opts.debounce), watcher.WithLogger(a.logger))
	for _, path := range []string{src.schemaPath, src.valuesPath} {
		if err := w.Watch(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}
	c := newChecker(a, src, w)
	c.follow(nil)
	defer c.close()

	w.OnChange(func(ev watcher.Event) {
		a.logger.Info("file changed", "path", ev.Path, "op", ev.Op)
		c.run()
	})

	if opts.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(c)
		srv := &http.Server{
			Addr:              opts.metricsAddr,
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server", "addr", opts.metricsAddr, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	c.run()
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	<-ctx.Done()
	return nil
}

func metricsMux(reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}
