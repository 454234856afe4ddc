// Package main is the Jiten CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/hyperjump/jiten/internal/cli"
	"github.com/hyperjump/jiten/internal/config"
	"github.com/hyperjump/jiten/internal/indexer"
	"github.com/hyperjump/jiten/internal/kanji"
	"github.com/hyperjump/jiten/internal/metrics"
	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/internal/resources"
	"github.com/hyperjump/jiten/internal/search"
	"github.com/hyperjump/jiten/internal/server"
	"github.com/hyperjump/jiten/internal/storage"
	"github.com/hyperjump/jiten/internal/suggest"
	"github.com/hyperjump/jiten/internal/vector"
	"github.com/hyperjump/jiten/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/jiten/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// A missing default config yields the built-in defaults.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "suggest":
		runSuggest()
	case "kanji":
		runKanji()
	case "index":
		runIndex()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("jiten version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func setup(configPath string, debugFlag bool) (*config.Config, *zap.Logger) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debugFlag
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded",
		zap.String("config_path", resolved),
		zap.Bool("debug", debugMode),
	)
	return cfg, logger
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	components, err := initializeComponents(context.Background(), cfg, logger, m)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()
	if err := components.Publish(); err != nil {
		logger.Fatal("Failed to publish resources", zap.Error(err))
	}

	srv := server.NewServer(
		components.Search,
		components.Suggest,
		components.Kanji,
		components.Storage,
		cfg,
		server.WithMetrics(m, reg),
		server.WithLogger(logger),
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument, so "jiten search 食べる -lang ger"
// would otherwise leave -lang unparsed.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func parseOutputFormat(s string) (cli.OutputFormat, error) {
	switch s {
	case "text", "":
		return cli.OutputText, nil
	case "json":
		return cli.OutputJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q; use text or json", s)
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: jiten search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Tags such as #kanji, #n5 or #verb may appear anywhere.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  jiten search to eat
  jiten search 食べる
  jiten search --target kanji 新しい
  jiten search "古 ふる"                    # words using 古 read as ふる
  jiten search --lang ger essen #verb
`)
}

func runSearch() {
	args := searchArgsReorder(os.Args[2:])
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", "", "server URL; empty searches local storage directly")
	target := fs.String("target", "words", "search target: words, kanji, sentences or names")
	lang := fs.String("lang", "eng", "user language (code or English name)")
	page := fs.Int("page", 1, "result page")
	pageSize := fs.Int("page-size", 0, "results per page (default from config)")
	noEnglish := fs.Bool("no-english", false, "do not add English results for other languages")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(args)

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	searchTarget, ok := models.ParseSearchTarget(*target)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown search target %q\n", *target)
		os.Exit(1)
	}
	showEnglish := !*noEnglish
	req := models.SearchRequest{
		Query:       queryStr,
		Lang:        *lang,
		Page:        *page,
		PageSize:    *pageSize,
		ShowEnglish: &showEnglish,
	}

	var response *models.SearchResponse
	if *serverURL != "" {
		response = new(models.SearchResponse)
		err = postJSON(*serverURL+"/api/search/"+url.PathEscape(searchTarget.String()), req, response)
	} else {
		cfg, logger := setup(*configPath, false)
		defer logger.Sync()
		if req.PageSize == 0 {
			req.PageSize = cfg.Search.PageSize
		}
		components, initErr := initializeComponents(context.Background(), cfg, logger, nil)
		if initErr != nil {
			logger.Fatal("Failed to initialize", zap.Error(initErr))
		}
		defer components.Close()
		response, err = components.Search.Search(context.Background(), searchTarget, req)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runSuggest() {
	args := searchArgsReorder(os.Args[2:])
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", "", "server URL; empty uses local storage directly")
	lang := fs.String("lang", "eng", "user language (code or English name)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	input := buildSearchQuery(fs.Args())
	if input == "" {
		fmt.Println("Usage: jiten suggest [flags] <input>")
		os.Exit(1)
	}
	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	req := models.SuggestionRequest{Input: input, Lang: *lang}

	var response *models.SuggestionResponse
	if *serverURL != "" {
		response = new(models.SuggestionResponse)
		err = postJSON(*serverURL+"/api/suggestion", req, response)
	} else {
		cfg, logger := setup(*configPath, false)
		defer logger.Sync()
		components, initErr := initializeComponents(context.Background(), cfg, logger, nil)
		if initErr != nil {
			logger.Fatal("Failed to initialize", zap.Error(initErr))
		}
		defer components.Close()
		response, err = components.Suggest.Suggest(context.Background(), req)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Suggest failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSuggestions(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runKanji() {
	args := searchArgsReorder(os.Args[2:])
	fs := flag.NewFlagSet("kanji", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", "", "server URL; empty uses local storage directly")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Println("Usage: jiten kanji [flags] <literal>")
		os.Exit(1)
	}
	literal := fs.Arg(0)
	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var detail cli.KanjiDetail
	if *serverURL != "" {
		err = getJSON(*serverURL+"/api/kanji/"+url.PathEscape(literal), &detail)
	} else {
		cfg, logger := setup(*configPath, false)
		defer logger.Sync()
		detail, err = lookupKanji(context.Background(), cfg, logger, literal)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Kanji lookup failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteKanji(os.Stdout, detail, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// lookupKanji reads a kanji and its kun compounds straight from storage,
// without loading the search indices.
func lookupKanji(ctx context.Context, cfg *config.Config, logger *zap.Logger, literal string) (cli.KanjiDetail, error) {
	var detail cli.KanjiDetail
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return detail, err
	}
	defer store.Close()
	svc, err := kanji.NewService(store, kanji.WithLogger(logger))
	if err != nil {
		return detail, err
	}
	k, err := svc.FindByLiteral(ctx, literal)
	if err != nil {
		return detail, err
	}
	detail.Kanji = k
	seqs := k.KunDicts
	if len(seqs) == 0 {
		if seqs, err = svc.KunCompounds(ctx, k); err != nil {
			return detail, err
		}
	}
	for _, seq := range seqs {
		w, err := store.WordBySequence(ctx, seq)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return detail, err
		}
		detail.KunCompounds = append(detail.KunCompounds, w)
	}
	return detail, nil
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	importDir := fs.String("import", "", "import JSON lines files from this directory before indexing")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()
	kanjiSvc, err := kanji.NewService(store, kanji.WithLogger(logger))
	if err != nil {
		logger.Fatal("Failed to create kanji service", zap.Error(err))
	}
	idx := indexer.NewIndexer(store,
		indexer.WithLogger(logger),
		indexer.WithKanjiService(kanjiSvc),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *importDir != "" {
		stats, err := idx.ImportDirectory(ctx, *importDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d words, %d kanji, %d sentences, %d names\n",
			stats.Words, stats.Kanji, stats.Sentences, stats.Names)
	}

	report, err := idx.Run(ctx, cfg.Storage.IndexDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Indexing failed: %v\n", err)
		os.Exit(1)
	}
	for _, s := range report.IndexStats {
		fmt.Printf("%-28s %8d docs %8d terms\n", s.Key, s.Documents, s.Terms)
	}
	fmt.Printf("Wrote %d indices (%d documents) to %s in %s; %d kanji linked to kun compounds\n",
		report.Indices, report.Documents, cfg.Storage.IndexDir, report.Duration.Round(time.Millisecond), report.KunLinked)
}

// statusResponse is the shape of the GET /health response.
type statusResponse struct {
	Status         string             `json:"status"`
	Records        storage.Stats      `json:"records"`
	Footprint      *storage.Footprint `json:"footprint,omitempty"`
	DiskUsageBytes int64              `json:"disk_usage_bytes,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", "", "server URL; empty reads local storage directly")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		if err := getJSON(*serverURL+"/health", &status); err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, logger := setup(*configPath, false)
		defer logger.Sync()
		store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		stats, err := store.Stats(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Stats failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{Status: "ok", Records: stats}
		if fp, err := storage.MeasureFootprint(cfg.Storage.DatabasePath, cfg.Storage.IndexDir, cfg.Storage.SuggestionDir); err == nil {
			status.Footprint = &fp
			status.DiskUsageBytes = fp.Total()
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("words:              %d\n", status.Records.Words)
		fmt.Printf("kanji:              %d\n", status.Records.Kanji)
		fmt.Printf("sentences:          %d\n", status.Records.Sentences)
		fmt.Printf("names:              %d\n", status.Records.Names)
		if fp := status.Footprint; fp != nil {
			fmt.Println()
			fmt.Println("# disk usage (bytes)")
			fmt.Printf("database:           %d\n", fp.Database)
			for _, d := range fp.Domains() {
				fmt.Printf("%-19s %d\n", d+":", fp.Indexes[d])
			}
			fmt.Printf("suggestions:        %d\n", fp.Suggestions)
			fmt.Printf("total:              %d\n", status.DiskUsageBytes)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func postJSON(endpoint string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	resp, err := http.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func getJSON(endpoint string, out interface{}) error {
	resp, err := http.Get(endpoint)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Components holds initialized services.
type Components struct {
	Storage     storage.Storage
	Resources   *resources.Memory
	Indices     *vector.Registry
	Suggestions *suggest.Registry
	Kanji       *kanji.Service
	Search      *search.Service
	Suggest     *suggest.Service
}

// Publish makes the loaded snapshots the process-wide ones.
func (c *Components) Publish() error {
	if err := resources.Publish(c.Resources); err != nil {
		return err
	}
	if err := vector.Publish(c.Indices); err != nil {
		return err
	}
	return suggest.Publish(c.Suggestions)
}

func (c *Components) Close() {
	if c.Suggestions != nil {
		_ = c.Suggestions.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	c := &Components{Storage: store}

	if c.Resources, err = resources.Load(ctx, store); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load resources: %w", err)
	}
	counts := c.Resources.Counts()
	logger.Info("resources loaded",
		zap.Int("words", counts.Words),
		zap.Int("kanji", counts.Kanji),
		zap.Int("sentences", counts.Sentences),
		zap.Int("names", counts.Names),
	)

	if c.Indices, err = vector.LoadRegistry(cfg.Storage.IndexDir, logger); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load indices: %w", err)
	}
	if c.Indices.Len() == 0 {
		logger.Warn("no indices loaded; run \"jiten index\" first", zap.String("dir", cfg.Storage.IndexDir))
	}

	if c.Suggestions, err = suggest.LoadDir(cfg.Storage.SuggestionDir, logger); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load suggestions: %w", err)
	}

	cache, err := kanji.NewCache(cfg.Cache.KanjiCapacity)
	if err != nil {
		c.Close()
		return nil, err
	}
	if c.Kanji, err = kanji.NewService(store,
		kanji.WithCache(cache),
		kanji.WithMetrics(m),
		kanji.WithLogger(logger),
	); err != nil {
		c.Close()
		return nil, err
	}

	terms := search.NewTerms(nil)
	c.Search = search.NewService(c.Indices, c.Resources, c.Kanji, terms,
		search.WithConfig(search.Config{
			Threshold:   cfg.Search.Threshold,
			VectorLimit: cfg.Search.VectorLimit,
			AllowAlign:  cfg.Search.AllowAlignOrDefault(),
			MaxPageSize: cfg.Search.Limit,
		}),
		search.WithMetrics(m),
		search.WithLogger(logger),
	)
	c.Suggest = suggest.NewService(store, c.Suggestions,
		suggest.WithTimeout(cfg.Suggestion.Timeout),
		suggest.WithMaxResults(cfg.Suggestion.MaxResults),
		suggest.WithMetrics(m),
		suggest.WithLogger(logger),
	)
	return c, nil
}

func printUsage() {
	fmt.Println(`jiten - Japanese dictionary search

Usage:
  jiten server [flags]            Start the HTTP server
  jiten search [flags] <query>    Search words, kanji, sentences or names
  jiten suggest [flags] <input>   Autocomplete an input
  jiten kanji [flags] <literal>   Show a kanji with its kun compounds
  jiten index [flags]             Import records and build the search indices
  jiten status [flags]            Show record counts and disk usage
  jiten version                   Show version
  jiten help                      Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/jiten/config.yaml)
  --server string    Server URL; when empty, commands read local storage directly
  --output string    Output format: text or json (default: text)

Search Flags:
  --target string    words, kanji, sentences or names (default: words)
  --lang string      User language (default: eng)
  --page int         Result page (default: 1)
  --page-size int    Results per page (default from config)
  --no-english       Do not add English results for other languages

Index Flags:
  --import string    Directory of words/kanji/sentences/names .jsonl files to import first
  --debug            Enable debug logging

Examples:
  jiten index --import ./data
  jiten server
  jiten search to eat
  jiten search --target kanji 新しい
  jiten search --lang ger essen #verb
  jiten suggest たべ
  jiten kanji 古
  jiten status --output json`)
}
