// Package main is the smartdata CLI entry point.
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
	"strconv"
	"syscall"
	"time"

	"github.com/hyperjump/smartdata/internal/chat"
	"github.com/hyperjump/smartdata/internal/classifier"
	"github.com/hyperjump/smartdata/internal/cli"
	"github.com/hyperjump/smartdata/internal/config"
	"github.com/hyperjump/smartdata/internal/crawler"
	"github.com/hyperjump/smartdata/internal/mapping"
	"github.com/hyperjump/smartdata/internal/models"
	"github.com/hyperjump/smartdata/internal/organize"
	"github.com/hyperjump/smartdata/internal/pipeline"
	"github.com/hyperjump/smartdata/internal/relocator"
	"github.com/hyperjump/smartdata/internal/server"
	"github.com/hyperjump/smartdata/internal/storage"
	"github.com/hyperjump/smartdata/internal/watcher"
	"github.com/hyperjump/smartdata/pkg/utils"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/smartdata/config.yaml"
	defaultServerURL  = "http://localhost:5001"
)

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development). If neither the cwd file nor
// the default file exists, built-in defaults are used.
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
	}
	cfg, err := config.Load(path)
	if err != nil {
		if path == defaultConfigPath && errors.Is(err, os.ErrNotExist) {
			return config.Default(filepath.Dir(path)), "", nil
		}
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
	case "process":
		runProcess()
	case "records":
		runRecords()
	case "mappings":
		runMappings()
	case "product":
		runProduct()
	case "status":
		runStatus()
	case "config":
		runConfig()
	case "version", "--version", "-v":
		fmt.Printf("smartdata version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func mustLoad(configPath string, debugFlag bool) (*config.Config, string, *zap.Logger, bool) {
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
	return cfg, resolved, logger, debugMode
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (watch events, per-file outcomes)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, logger, debugMode := mustLoad(*configPath, *debug)
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if m, err := components.Mappings.Load(); err != nil {
		logger.Warn("keyword mapping unavailable; files will stay in place until it is fixed",
			zap.String("path", cfg.Mappings.Path), zap.Error(err))
	} else {
		logger.Info("keyword mapping loaded", zap.String("path", cfg.Mappings.Path), zap.Int("entries", m.Len()))
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()

	pipe := components.Pipeline
	watchOpts := []watcher.WatcherOption{watcher.WithSettleDelay(cfg.Watch.SettleDelay())}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.NewWatcher(
		cfg.Watch.Directory,
		cfg.Watch.Extensions,
		func(path string) { pipe.HandleFile(watchCtx, path) },
		watchOpts...,
	)
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	logger.Info("monitoring directory", zap.String("dir", watchSvc.Dir()))
	if cfg.Watch.ProcessExisting {
		n, err := watchSvc.SyncExistingFiles()
		if err != nil {
			logger.Warn("sync existing files failed", zap.Error(err))
		} else {
			logger.Info("queued existing files", zap.Int("files", n))
		}
	}

	runner := crawler.NewRunner(crawler.Config{
		Command:       cfg.Crawler.Command,
		Args:          cfg.Crawler.Args,
		Dir:           cfg.Crawler.WorkDir,
		RatePerSecond: cfg.Crawler.RatePerSecond,
	}, logger)

	deps := server.Deps{
		Storage:   components.Storage,
		Mappings:  components.Mappings,
		Crawler:   runner,
		RulesPath: cfg.Crawler.RulesPath,
		Organizer: organize.NewOrganizer(cfg.Organize.BaseDir),
		WatchDir:  cfg.Watch.Directory,
		DiskPaths: append([]string{cfg.Storage.DatabasePath}, relocationDirs(components.Relocator)...),
	}
	chatClient, err := chat.NewClient(chat.Config{
		APIKey:      cfg.Chat.APIKey,
		BaseURL:     cfg.Chat.BaseURL,
		Model:       cfg.Chat.Model,
		MaxTokens:   cfg.Chat.MaxTokens,
		Temperature: cfg.Chat.Temperature,
	}, logger)
	if err != nil {
		logger.Warn("chat disabled", zap.Error(err))
	} else {
		deps.Chat = chatClient
	}

	srv := server.NewServer(deps, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	watchSvc.Stop()
	if runner.Stop() {
		logger.Info("stopped running crawl")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// relocationDirs returns the category folders, leaving out the base directory itself.
func relocationDirs(r *relocator.Relocator) []string {
	var dirs []string
	for _, d := range r.Folders() {
		if filepath.Clean(d) != filepath.Clean(r.BaseDir()) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func runProcess() {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(argsReorder(os.Args[2:]))
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: smartdata process [flags] <file.json>...")
		os.Exit(1)
	}

	cfg, _, logger, _ := mustLoad(*configPath, *debug)
	defer logger.Sync()
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	failed := 0
	for _, path := range fs.Args() {
		res, err := components.Pipeline.ProcessFile(context.Background(), path)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}
		fmt.Printf("%s: tags=%s record=%s -> %s\n", path, storage.Signature(res.Tags), res.Record.ID, res.Destination)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func runRecords() {
	fs := flag.NewFlagSet("records", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text, compact or json")
	limit := fs.Int("limit", 50, "maximum records to list")
	offset := fs.Int("offset", 0, "records to skip")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	q := models.RecordListQuery{Offset: *offset, Limit: *limit}
	q.Normalize()

	var records []*models.StoredRecord
	if *serverURL != "" {
		records, err = recordsViaHTTP(*serverURL, q)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Listing records failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, _, logger, _ := mustLoad(*configPath, false)
		defer logger.Sync()
		store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		records, err = store.ListRecords(context.Background(), q.Offset, q.Limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Listing records failed: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cli.WriteRecords(os.Stdout, records, format); err != nil {
		fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
		os.Exit(1)
	}
}

func recordsViaHTTP(serverURL string, q models.RecordListQuery) ([]*models.StoredRecord, error) {
	params := url.Values{}
	params.Set("offset", strconv.Itoa(q.Offset))
	params.Set("limit", strconv.Itoa(q.Limit))
	resp, err := http.Get(serverURL + "/api/v1/records?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("request failed (is the server running?): %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out struct {
		Records []*models.StoredRecord `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Records, nil
}

// argsReorder moves flags that follow leading positional arguments to the front so that
// flag.Parse sees them. Go's flag package stops at the first non-flag argument, so
// "smartdata mappings set -category products" would otherwise leave -category unparsed.
func argsReorder(args []string) []string {
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

func runMappings() {
	fs := flag.NewFlagSet("mappings", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	category := fs.String("category", "", "category for set: products, regulations or tags")
	keyword := fs.String("keyword", "", "keyword for set")
	tag := fs.String("tag", "", "tag for set")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	action := "list"
	if fs.NArg() > 0 {
		action = fs.Arg(0)
	}
	cfg, _, logger, _ := mustLoad(*configPath, false)
	defer logger.Sync()
	store := mapping.NewStore(cfg.Mappings.Path)

	switch action {
	case "list":
		m, err := store.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Load failed: %v\n", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(m)
	case "set":
		if *category == "" || *keyword == "" || *tag == "" {
			fmt.Fprintln(os.Stderr, "Usage: smartdata mappings set -category <c> -keyword <k> -tag <t>")
			os.Exit(1)
		}
		m, err := store.Load()
		if err != nil {
			var cfgErr *mapping.ConfigurationError
			if !errors.As(err, &cfgErr) || !errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Load failed: %v\n", err)
				os.Exit(1)
			}
			m = &mapping.KeywordMapping{}
		}
		if err := m.Set(*category, *keyword, *tag); err != nil {
			fmt.Fprintf(os.Stderr, "Set failed: %v\n", err)
			os.Exit(1)
		}
		if err := store.Save(m); err != nil {
			fmt.Fprintf(os.Stderr, "Save failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: %s -> %s\n", *category, *keyword, *tag)
	default:
		fmt.Fprintf(os.Stderr, "Unknown mappings action: %s (want list or set)\n", action)
		os.Exit(1)
	}
}

func runConfig() {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	force := fs.Bool("force", false, "overwrite an existing config file on init")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	action := "show"
	if fs.NArg() > 0 {
		action = fs.Arg(0)
	}
	switch action {
	case "init":
		if _, err := initConfig(*configPath, *force); err != nil {
			fmt.Fprintf(os.Stderr, "Init failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default config to %s\n", *configPath)
	case "show":
		cfg, resolved, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		if resolved == "" {
			resolved = "built-in defaults"
		}
		fmt.Printf("# %s\n", resolved)
		if err := writeConfigYAML(os.Stdout, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Show failed: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s (want init or show)\n", action)
		os.Exit(1)
	}
}

// initConfig writes the default config to path, with paths expanded against its directory.
// An existing file is kept unless force is set.
func initConfig(path string, force bool) (*config.Config, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	cfg := config.Default(filepath.Dir(path))
	if err := config.Save(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// writeConfigYAML prints cfg with the chat API key masked.
func writeConfigYAML(w io.Writer, cfg *config.Config) error {
	shown := *cfg
	if shown.Chat.APIKey != "" {
		shown.Chat.APIKey = "********"
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&shown); err != nil {
		return err
	}
	return enc.Close()
}

func runProduct() {
	fs := flag.NewFlagSet("product", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	name := fs.String("name", "", "product name")
	description := fs.String("description", "", "product description")
	price := fs.String("price", "", "product price, e.g. 19.99")
	query := fs.String("query", "", "name substring for search")
	outputFormat := fs.String("output", "text", "output format: text, compact or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	action := "search"
	if fs.NArg() > 0 {
		action = fs.Arg(0)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var products []*models.Product
	switch action {
	case "add":
		input := &models.ProductInput{Name: *name, Description: *description, Price: *price}
		if err := input.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid product: %v\n", err)
			os.Exit(1)
		}
		var p models.Product
		if err := postJSON(*serverURL+"/api/v1/products", input, http.StatusCreated, &p); err != nil {
			fmt.Fprintf(os.Stderr, "Add failed: %v\n", err)
			os.Exit(1)
		}
		products = []*models.Product{&p}
	case "search":
		if err := postJSON(*serverURL+"/recommend", models.RecommendQuery{Query: *query}, http.StatusOK, &products); err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown product action: %s (want add or search)\n", action)
		os.Exit(1)
	}
	if err := cli.WriteProducts(os.Stdout, products, format); err != nil {
		fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
		os.Exit(1)
	}
}

func postJSON(endpoint string, body interface{}, wantStatus int, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(endpoint, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("request failed (is the server running?): %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Records        int64          `json:"records"`
	Products       int64          `json:"products"`
	WatchDirectory string         `json:"watch_directory"`
	CrawlerRunning bool           `json:"crawler_running"`
	ChatEnabled    bool           `json:"chat_enabled"`
	DiskUsage      *storage.Usage `json:"disk_usage,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, logger, _ := mustLoad(*configPath, false)
		defer logger.Sync()
		store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		ctx := context.Background()
		if status.Records, err = store.CountRecords(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Count records failed: %v\n", err)
			os.Exit(1)
		}
		if status.Products, err = store.CountProducts(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Count products failed: %v\n", err)
			os.Exit(1)
		}
		status.WatchDirectory = cfg.Watch.Directory
		if usage, err := storage.DiskUsage(cfg.Storage.DatabasePath); err == nil {
			status.DiskUsage = &usage
		}
	}

	if *outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(status)
		return
	}
	writeStatusText(os.Stdout, &status)
}

func writeStatusText(w io.Writer, s *statusResponse) {
	fmt.Fprintf(w, "Records:         %d\n", s.Records)
	fmt.Fprintf(w, "Products:        %d\n", s.Products)
	fmt.Fprintf(w, "Watch directory: %s\n", s.WatchDirectory)
	fmt.Fprintf(w, "Crawler running: %v\n", s.CrawlerRunning)
	fmt.Fprintf(w, "Chat enabled:    %v\n", s.ChatEnabled)
	if s.DiskUsage != nil {
		fmt.Fprintf(w, "Disk usage:      %d files, %s\n", s.DiskUsage.Files, formatBytes(s.DiskUsage.Bytes))
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed (is the server running?): %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Components holds the pipeline and its stages.
type Components struct {
	Storage    *storage.SQLiteStorage
	Mappings   *mapping.Store
	Classifier *classifier.Classifier
	Relocator  *relocator.Relocator
	Pipeline   *pipeline.Pipeline
}

// Close releases resources.
func (c *Components) Close() error {
	if c.Storage != nil {
		return c.Storage.Close()
	}
	return nil
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	mappings := mapping.NewStore(cfg.Mappings.Path)
	cls := classifier.NewClassifier(mappings, logger)
	reloc := relocator.NewRelocator(cfg.Relocate.BaseDir, relocator.Folders{
		Products:    cfg.Relocate.ProductsFolder,
		Regulations: cfg.Relocate.RegulationsFolder,
		Default:     cfg.Relocate.DefaultFolder,
	})
	pipe := pipeline.NewPipeline(cls, store, reloc,
		pipeline.WithLogger(logger),
		pipeline.WithRelocateOnStoreError(cfg.Watch.RelocateOnStoreError),
	)
	return &Components{
		Storage:    store,
		Mappings:   mappings,
		Classifier: cls,
		Relocator:  reloc,
		Pipeline:   pipe,
	}, nil
}

func printUsage() {
	fmt.Println(`smartdata - Drop-folder classifier and product data server

Usage:
  smartdata server [flags]                 Watch the drop directory and serve the HTTP API
  smartdata process [flags] <file>...      Classify, store and relocate files once
  smartdata records [flags]                List stored records
  smartdata mappings [flags] [list|set]    Show or edit the keyword mapping
  smartdata product [flags] [search|add]   Search or add catalog products
  smartdata status [flags]                 Show record/product counts and disk usage
  smartdata config [flags] [show|init]     Print the effective config or write a default one
  smartdata version                        Print version
  smartdata help                           Show this help

Flags (common):
  -config string   config file path (default /usr/local/etc/smartdata/config.yaml)
  -server string   server URL for records/product/status (default http://localhost:5001)
  -output string   text, compact or json
  -force           overwrite an existing file (config init)`)
}
