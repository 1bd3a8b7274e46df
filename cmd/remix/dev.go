package main

import (
	"context"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/remix-go/remix/internal/config"
	"github.com/remix-go/remix/internal/dev"
)

func devCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development workflow",
		Long: `Start the development workflow.

Runs the application server (dev.command from remix.json), watches the
configured paths, restarts the server on Go changes, and tells connected
browsers to reload.

Examples:
  remix dev
  remix dev --port=8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Reload server port (default from remix.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from remix.json)")

	return cmd
}

func runDev(port int, host string) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		info("Shutting down...")
		cancel()
	}()

	reload := dev.NewReloadServer()
	defer reload.Close()

	mux := http.NewServeMux()
	mux.HandleFunc(dev.ReloadPath, reload.HandleWebSocket)
	go func() {
		if err := http.ListenAndServe(cfg.DevAddress(), mux); err != nil {
			errorMsg("reload server: %v", err)
			cancel()
		}
	}()
	info("Reload server on http://%s", cfg.DevAddress())

	runner := newAppRunner(cfg)
	if err := runner.start(); err != nil {
		return err
	}
	defer runner.stop()

	watchPaths := make([]string, 0, len(cfg.Dev.Watch))
	for _, p := range cfg.Dev.Watch {
		watchPaths = append(watchPaths, cfg.Dir()+string(os.PathSeparator)+p)
	}

	watcher := dev.NewWatcher(dev.WatcherConfig{
		Paths:  watchPaths,
		Ignore: cfg.Dev.Ignore,
	})
	watcher.OnChange(func(c dev.Change) {
		switch c.Type {
		case dev.ChangeGo:
			info("Change in %s, restarting", c.Path)
			if err := runner.restart(); err != nil {
				errorMsg("restart failed: %v", err)
				reload.NotifyError(err.Error())
				return
			}
			reload.ClearError()
			reload.NotifyReload()
			success("Reloaded %d browsers", reload.ClientCount())
		case dev.ChangeCSS:
			reload.NotifyCSS(c.Path)
		default:
			reload.NotifyReload()
		}
	})

	return watcher.Start(ctx)
}

// appRunner manages the application server subprocess.
type appRunner struct {
	cfg *config.Config
	cmd *exec.Cmd
}

func newAppRunner(cfg *config.Config) *appRunner {
	return &appRunner{cfg: cfg}
}

func (r *appRunner) start() error {
	parts := strings.Fields(r.cfg.Dev.Command)
	if len(parts) == 0 {
		parts = []string{"go", "run", "."}
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Dir = r.cfg.Dir()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}
	r.cmd = cmd
	info("Started: %s", r.cfg.Dev.Command)
	return nil
}

func (r *appRunner) stop() {
	if r.cmd == nil || r.cmd.Process == nil {
		return
	}
	r.cmd.Process.Signal(syscall.SIGTERM)
	r.cmd.Wait()
	r.cmd = nil
}

func (r *appRunner) restart() error {
	r.stop()
	return r.start()
}
