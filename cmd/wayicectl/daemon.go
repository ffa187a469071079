package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wayice/wayice/internal/config"
	"github.com/wayice/wayice/internal/daemon"
	"github.com/wayice/wayice/internal/ipc"
	"github.com/wayice/wayice/internal/shm"
	"github.com/wayice/wayice/internal/snapshot"
	"github.com/wayice/wayice/internal/surface"
)

// emptySource publishes empty lists when no window source is enabled.
type emptySource struct{}

func (emptySource) Windows() ([]surface.Window, error) { return nil, nil }
func (emptySource) Outputs() ([]surface.Output, error) { return nil, nil }

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/wayice/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wayicectl daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Publish the window and output lists to shared memory and serve the")
		fmt.Fprintln(os.Stderr, "request socket until interrupted.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return 2
	}

	res, cfgPath, err := loadConfig(*path)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	cfg := res.Config
	log.Printf("Configuration loaded from %s (socket: %s, interval: %s)", cfgPath, cfg.SocketPath, cfg.Publish.Interval)

	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var source daemon.WindowSource = emptySource{}
	builder := snapshot.Builder{}
	if cfg.X11.Enabled {
		x11Source := daemon.NewX11Source(cfg.X11.Display, logger)
		defer x11Source.Close()
		source = x11Source
		builder.Resolver = x11Source
		builder.IncludeUnassociated = true
	}

	segments := shm.NewPublisher(logger, cfg.Publish.LockTimeout)
	publisher := daemon.NewPublisher(daemon.PublisherConfig{
		Interval:       cfg.Publish.Interval,
		WindowsSegment: cfg.Publish.WindowsSegment,
		OutputsSegment: cfg.Publish.OutputsSegment,
		Builder:        builder,
		Logger:         logger,
	}, source, segments)

	ipcServer := ipc.NewServer(cfg.SocketPath, cfg.MaxFrameBytes)
	ipcServer.Handle(ipc.MethodRefresh, func(*ipc.Message) {
		publisher.Notify()
	})
	if err := ipcServer.Start(); err != nil {
		log.Printf("Failed to start IPC server: %v", err)
		return 1
	}
	defer ipcServer.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	watcher := config.NewWatcher(cfgPath, cfg)
	watcher.OnChange(func(newCfg *config.Config) {
		publisher.SetInterval(newCfg.Publish.Interval)
		segments.SetLockTimeout(newCfg.Publish.LockTimeout)
		level.Set(newCfg.SlogLevel())
		if requiresRestart(cfg, newCfg) {
			log.Printf("Config reloaded; socket, segment and x11 changes take effect after restart")
			return
		}
		log.Printf("Config reloaded")
	})
	go func() {
		if err := watcher.Run(ctx); err != nil {
			log.Printf("Warning: config watcher stopped: %v", err)
		}
	}()

	log.Println("wayice daemon started successfully")
	publisher.Run(ctx)
	log.Println("Shutting down wayice daemon...")
	return 0
}

// requiresRestart reports whether next changes settings only read at
// startup.
func requiresRestart(prev, next *config.Config) bool {
	return prev.SocketPath != next.SocketPath ||
		prev.MaxFrameBytes != next.MaxFrameBytes ||
		prev.Publish.WindowsSegment != next.Publish.WindowsSegment ||
		prev.Publish.OutputsSegment != next.Publish.OutputsSegment ||
		prev.X11 != next.X11
}
