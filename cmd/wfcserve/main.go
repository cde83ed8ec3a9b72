// Command wfcserve exposes the Driver API over WebSocket as
// newline-delimited JSON commands and responses. Each connection gets its
// own SolverState; the core package has no knowledge this transport exists.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/wfctiles/internal/config"
	"github.com/lawnchairsociety/wfctiles/internal/logger"
	"github.com/lawnchairsociety/wfctiles/internal/wfc"
)

func main() {
	configFile := flag.String("config", "", "Path to wfcserve config YAML file")
	rulesFile := flag.String("rules", "", "Path to a rule document (overrides config)")
	width := flag.Int("width", 0, "Grid width in cells (overrides config)")
	height := flag.Int("height", 0, "Grid height in cells (overrides config)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfcserve: load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "wfcserve: initialize logger: %v\n", err)
		os.Exit(1)
	}

	if *rulesFile != "" {
		cfg.Paths.RulesFile = *rulesFile
	}
	if *width > 0 {
		cfg.Generation.Width = *width
	}
	if *height > 0 {
		cfg.Generation.Height = *height
	}
	if *addr != "" {
		cfg.WebSocket.ListenAddr = *addr
	}

	if cfg.Paths.RulesFile == "" {
		fmt.Fprintln(os.Stderr, "wfcserve: a rule document is required (pass -rules or set paths.rules_file)")
		os.Exit(1)
	}
	rules, err := wfc.LoadRules(cfg.Paths.RulesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfcserve: load rules: %v\n", err)
		os.Exit(1)
	}

	if len(cfg.WebSocket.AllowedOrigins) == 0 {
		logger.Info("wfcserve: WebSocket CORS policy", "mode", "same-origin")
	} else {
		logger.Info("wfcserve: WebSocket CORS policy", "allowed_origins", cfg.WebSocket.AllowedOrigins)
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			return cfg.WebSocket.IsOriginAllowed(origin, r.Host)
		},
	}

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warning("wfcserve: upgrade failed", "err", err)
			return
		}
		conn := newWSConn(raw, cfg.WebSocket.MaxMessageSize)
		sess := newSession(rules, cfg.Generation.Width, cfg.Generation.Height, conn)
		go sess.serve()
	})

	logger.Info("wfcserve: listening", "addr", cfg.WebSocket.ListenAddr)
	if err := http.ListenAndServe(cfg.WebSocket.ListenAddr, nil); err != nil {
		fmt.Fprintf(os.Stderr, "wfcserve: %v\n", err)
		os.Exit(1)
	}
}
