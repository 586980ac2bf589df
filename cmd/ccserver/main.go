// Command ccserver runs the checkers search REST API server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/yourusername/ccengine/pkg/api"
	"github.com/yourusername/ccengine/pkg/engine"
	"github.com/yourusername/ccengine/pkg/external"
)

const version = "0.1.0"

func main() {
	defaults := api.DefaultConfig()

	// Command line flags
	host := flag.String("host", defaults.Host, "Host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", defaults.Port, "Port to listen on")
	boardSize := flag.Int("size", engine.DefaultBoardSize, "Board size (even, 2-26)")
	maxDepth := flag.Int("max-depth", defaults.MaxDepth, "Deepest search a request may ask for")
	maxSearches := flag.Int("max-searches", defaults.MaxSlowWorkers, "Max concurrent searches")
	maxLeaves := flag.Int("max-leaves", engine.DefaultMaxLeaves, "Max leaves per search (0 = unbounded)")
	readTimeout := flag.Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	externalAddr := flag.String("external", "", "Also serve the text protocol on this TCP address (e.g. :1234)")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("ccengine API Server v%s\n", version)
		os.Exit(0)
	}

	log.Printf("ccengine API Server v%s", version)

	limits := engine.DefaultLimits()
	limits.MaxLeaves = *maxLeaves
	eng, err := engine.NewEngine(engine.EngineOptions{
		BoardSize: *boardSize,
		Limits:    &limits,
	})
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	config := api.ServerConfig{
		Host:           *host,
		Port:           *port,
		ReadTimeout:    *readTimeout,
		WriteTimeout:   *writeTimeout,
		IdleTimeout:    60 * time.Second,
		MaxFastWorkers: defaults.MaxFastWorkers,
		MaxSlowWorkers: *maxSearches,
		MaxDepth:       *maxDepth,
	}

	if *externalAddr != "" {
		opts := external.DefaultServerOptions()
		opts.Addr = *externalAddr
		opts.MaxDepth = *maxDepth
		ext := external.NewServer(eng, opts)
		if err := ext.Start(); err != nil {
			log.Fatalf("Failed to start text protocol server: %v", err)
		}
		defer ext.Stop()
		log.Printf("Text protocol listening on %s", ext.Addr())
	}

	server := api.NewServer(eng, config, version)

	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
