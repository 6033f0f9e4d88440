// Command ignited hosts an Ignite store behind the network protocol. It is
// a minimal process entry point, not a CLI framework: flag parsing for the
// handful of knobs the store recognizes, signal-driven shutdown, nothing
// more (CLIs are explicitly out of scope per the specification this module
// implements).
package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/ignitedb/ignite/internal/adapter"
	"github.com/ignitedb/ignite/internal/boltengine"
	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/internal/server"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:4000", "address to listen on")
	dataDir := flag.String("data-dir", options.DefaultDataDir, "directory to store data in")
	engineKind := flag.String("engine", string(options.DefaultEngineKind), "storage engine: kvs or sled")
	compactionThreshold := flag.Uint64(
		"compaction-threshold", options.DefaultCompactionThreshold, "stale bytes that trigger compaction",
	)
	flag.Parse()

	log := logger.New("ignited")
	defer log.Sync()

	opts := options.NewDefaultOptions()
	options.WithDataDir(*dataDir)(&opts)
	options.WithEngineKind(options.EngineKind(*engineKind))(&opts)
	options.WithCompactionThreshold(*compactionThreshold)(&opts)

	kind, err := adapter.Resolve(opts.DataDir, opts.EngineKind)
	if err != nil {
		log.Fatalw("failed to resolve storage engine", "error", err)
	}

	var store adapter.Store
	switch kind {
	case options.EngineKindEmbedded:
		store, err = boltengine.Open(opts.DataDir)
	default:
		store, err = engine.Open(&engine.Config{Logger: log, Options: &opts})
	}
	if err != nil {
		log.Fatalw("failed to open storage engine", "error", err)
	}
	defer store.Close()

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalw("failed to listen", "addr", *addr, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infow("ignited listening", "addr", *addr, "dataDir", opts.DataDir, "engine", kind)

	srv := server.New(store, log)
	if err := srv.Serve(ctx, ln); err != nil {
		log.Fatalw("server stopped unexpectedly", "error", err)
	}
}
