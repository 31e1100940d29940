// Command studiocat indexes a user's Ableton Live project collection into
// a queryable local catalog and keeps it in sync with the filesystem.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"studiocat/internal/catalog"
	"studiocat/internal/config"
	"studiocat/internal/installed"
	"studiocat/internal/query"
	"studiocat/internal/reconcile"
	"studiocat/internal/scan"
	"studiocat/internal/watcher"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "scan":
		err = runScan(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Printf("studiocat: %v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: studiocat <scan|watch|serve> -config <path> [flags]")
}

func loadStoreAndOverlay(configPath string) (*config.Config, *catalog.Store, *installed.Overlay, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("config: %w", err)
	}
	store, err := catalog.Open(cfg.DatabasePath.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("catalog: %w", err)
	}
	overlay := installed.NewOverlay(cfg.LiveDatabaseDir.Dir)
	return cfg, store, overlay, nil
}

func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml")
	recursive := fs.Bool("recursive", true, "recurse into subdirectories")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return fmt.Errorf("scan: -config is required")
	}

	cfg, store, overlay, err := loadStoreAndOverlay(*configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	r := reconcile.New(store, overlay)
	ctx := context.Background()

	for _, root := range cfg.Directories.Paths {
		paths, err := scan.Walk(root, *recursive)
		if err != nil {
			return fmt.Errorf("scan %q: %w", root, err)
		}
		for _, p := range paths {
			if err := r.Reconcile(ctx, p); err != nil {
				log.Printf("scan: reconcile %q: %v", p, err)
			}
		}
	}
	return nil
}

func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml")
	recursive := fs.Bool("recursive", true, "recurse into subdirectories")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return fmt.Errorf("watch: -config is required")
	}

	cfg, store, overlay, err := loadStoreAndOverlay(*configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	r := reconcile.New(store, overlay)
	w := watcher.New(cfg.Directories.Paths, *recursive, r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return w.Run(ctx)
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml")
	addr := fs.String("addr", "127.0.0.1:8080", "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return fmt.Errorf("serve: -config is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	store, err := catalog.Open(cfg.DatabasePath.Path)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:    *addr,
		Handler: query.NewServer(store),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
