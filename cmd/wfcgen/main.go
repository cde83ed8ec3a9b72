// Command wfcgen is a one-shot tile map generator: it loads or infers an
// adjacency rule set, runs the wave-function-collapse solver to full
// determination, and prints the result as an ASCII grid.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/lawnchairsociety/wfctiles/internal/analysis"
	"github.com/lawnchairsociety/wfctiles/internal/config"
	"github.com/lawnchairsociety/wfctiles/internal/logger"
	"github.com/lawnchairsociety/wfctiles/internal/rulecache"
	"github.com/lawnchairsociety/wfctiles/internal/wfc"
)

func main() {
	configFile := flag.String("config", "", "Path to wfcgen config YAML file")
	rulesFile := flag.String("rules", "", "Path to a rule document (overrides config)")
	tilesetFile := flag.String("tileset", "", "Path to a tileset PNG (overrides config)")
	tileWidth := flag.Int("tile-width", 0, "Tile width in pixels (0 = infer from filename)")
	tileHeight := flag.Int("tile-height", 0, "Tile height in pixels (0 = infer from filename)")
	width := flag.Int("width", 0, "Grid width in cells (overrides config)")
	height := flag.Int("height", 0, "Grid height in cells (overrides config)")
	seed := flag.Int64("seed", 0, "Random seed (0 = derived from current time)")
	infer := flag.Bool("infer", false, "Infer adjacency rules from the tileset instead of loading a rule document")
	useCache := flag.Bool("cache", true, "Consult and populate the rule cache when inferring")
	analyze := flag.Bool("analyze", false, "Print a connectivity report after solving")
	saveRules := flag.String("save-rules", "", "Write the (possibly inferred) rule set to this path before solving")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfcgen: load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "wfcgen: initialize logger: %v\n", err)
		os.Exit(1)
	}

	if *rulesFile != "" {
		cfg.Paths.RulesFile = *rulesFile
	}
	if *tilesetFile != "" {
		cfg.Paths.TilesetFile = *tilesetFile
	}
	if *width > 0 {
		cfg.Generation.Width = *width
	}
	if *height > 0 {
		cfg.Generation.Height = *height
	}
	if *seed != 0 {
		cfg.Generation.Seed = *seed
	}
	if cfg.Generation.Seed == 0 {
		cfg.Generation.Seed = time.Now().UnixNano()
	}

	rules, err := loadRules(cfg, *infer, *useCache, *tileWidth, *tileHeight)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfcgen: %v\n", err)
		os.Exit(1)
	}

	if *saveRules != "" {
		if err := rules.Save(*saveRules); err != nil {
			fmt.Fprintf(os.Stderr, "wfcgen: save rules: %v\n", err)
			os.Exit(1)
		}
	}

	start := time.Now()
	state := wfc.NewSolverState(rules, cfg.Generation.Width, cfg.Generation.Height, cfg.Generation.Seed)
	state.FillAtRandom()
	elapsed := time.Since(start)

	printGrid(os.Stdout, state, rules)

	errorCells := countErrors(state, rules)
	fmt.Printf("\n%s cells solved in %s (seed %d)",
		humanize.Comma(int64(cfg.Generation.Width*cfg.Generation.Height)), elapsed, cfg.Generation.Seed)
	if errorCells > 0 {
		fmt.Printf(", %s unsatisfiable\n", humanize.Comma(int64(errorCells)))
	} else {
		fmt.Println()
	}

	if *analyze {
		report := analysis.Analyze(state.Snapshot())
		printAnalysis(os.Stdout, report)
	}
}

// loadRules produces a Rules value either by loading a rule document
// directly or by inferring one from a tileset image, consulting the rule
// cache first when inference is requested and caching is enabled.
func loadRules(cfg *config.AppConfig, infer, useCache bool, tileWidth, tileHeight int) (*wfc.Rules, error) {
	if !infer {
		if cfg.Paths.RulesFile == "" {
			return nil, fmt.Errorf("no rules file given and -infer not set; pass -rules or -infer")
		}
		return wfc.LoadRules(cfg.Paths.RulesFile)
	}

	if cfg.Paths.TilesetFile == "" {
		return nil, fmt.Errorf("-infer requires a tileset (pass -tileset)")
	}
	ts, err := wfc.LoadTileSetFile(cfg.Paths.TilesetFile, tileWidth, tileHeight)
	if err != nil {
		return nil, fmt.Errorf("load tileset: %w", err)
	}

	if !useCache || cfg.Paths.RuleCacheDB == "" {
		return wfc.InferRules(ts)
	}

	cache, err := rulecache.Open(cfg.Paths.RuleCacheDB)
	if err != nil {
		logger.Warning("wfcgen: rule cache unavailable, inferring without it", "err", err)
		return wfc.InferRules(ts)
	}
	defer cache.Close()

	hash, err := rulecache.HashTileSet(ts)
	if err != nil {
		return nil, fmt.Errorf("hash tileset: %w", err)
	}

	if cached, found, err := cache.Get(hash); err == nil && found {
		logger.Info("wfcgen: rule cache hit", "hash", hash)
		return cached, nil
	}

	rules, err := wfc.InferRules(ts)
	if err != nil {
		return nil, err
	}
	if err := cache.Put(hash, ts.Name, rules); err != nil {
		logger.Warning("wfcgen: failed to populate rule cache", "err", err)
	}
	return rules, nil
}

// countErrors counts cells whose sole option is the error tile.
func countErrors(s *wfc.SolverState, rules *wfc.Rules) int {
	n := 0
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			if s.Get(x, y).Only(rules.ErrorTile) {
				n++
			}
		}
	}
	return n
}

// printGrid renders the solved grid as ASCII, coloring error cells red
// when stdout is a terminal.
func printGrid(w *os.File, s *wfc.SolverState, rules *wfc.Rules) {
	colorize := isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())

	var b strings.Builder
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			opts := s.Get(x, y)
			v, ok := opts.Single()
			switch {
			case !ok:
				b.WriteString(" ?")
			case v == rules.ErrorTile:
				if colorize {
					b.WriteString("\x1b[31mXX\x1b[0m")
				} else {
					b.WriteString("XX")
				}
			default:
				fmt.Fprintf(&b, "%2d", v)
			}
		}
		b.WriteByte('\n')
	}
	fmt.Fprint(w, b.String())
}

// printAnalysis reports the largest region and per-tile region counts.
func printAnalysis(w *os.File, report analysis.Report) {
	fmt.Fprintln(w, "\nConnectivity:")
	if largest, ok := report.LargestRegion(); ok {
		fmt.Fprintf(w, "  largest region: tile %d, %d cells\n", largest.TileIndex, len(largest.Cells))
	}
	for idx, regions := range report.Regions {
		fmt.Fprintf(w, "  tile %d: %d region(s)\n", idx, len(regions))
	}
}
