package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/taskql/taskql"
	"github.com/taskql/taskql/batch"
	"github.com/taskql/taskql/config"
	"github.com/taskql/taskql/csvimport"
	"github.com/taskql/taskql/pkg/logger"
	"github.com/taskql/taskql/server"
	"github.com/taskql/taskql/service"
	"github.com/taskql/taskql/workspace"
)

const usage = `usage: taskql <command> [flags]

commands:
  query <tql>    parse and compile a query, print the result as JSON
  serve          run the HTTP server
  import <file>  validate a CSV file against the workspace and create tasks
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	args := pflag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch args[0] {
	case "query":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "query: missing TQL argument")
			os.Exit(2)
		}
		runQuery(strings.Join(args[1:], " "))
	case "serve":
		runServe(cfg)
	case "import":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "import: missing file argument")
			os.Exit(2)
		}
		runImport(cfg, args[1])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

// runQuery prints the parse and compile outcome for one query.
func runQuery(input string) {
	pr, res := taskql.CompileQuery(input)

	out := map[string]any{}
	if len(pr.Errors) > 0 {
		out["errors"] = pr.Errors
	} else {
		out["ast"] = pr.AST.String()
	}
	if res != nil {
		out["server_filter"] = res.ServerFilter
		out["requires_client_side"] = res.RequiresClientSide
		if len(res.Warnings) > 0 {
			out["warnings"] = res.Warnings
		}
		if len(res.Errors) > 0 {
			out["errors"] = res.Errors
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
	if len(pr.Errors) > 0 {
		os.Exit(1)
	}
}

func buildDeps(cfg *config.Config) (*service.Client, *workspace.Cache) {
	client := service.NewClient(cfg.ServiceURL, cfg.ServiceToken)

	var store workspace.Store
	if cfg.RedisAddr != "" {
		store = workspace.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		store = workspace.NewMemoryStore()
	}

	ttl, err := time.ParseDuration(cfg.CacheTTL)
	if err != nil {
		logger.Warn("invalid cache_ttl, using default", "value", cfg.CacheTTL)
		ttl = workspace.DefaultTTL
	}
	cache := workspace.NewCache(store, ttl, client.GetWorkspaceConfig)
	return client, cache
}

func runServe(cfg *config.Config) {
	client, cache := buildDeps(cfg)
	srv := server.New(client, cache, batch.NewTracker())

	logger.Info("listening", "addr", cfg.ListenAddr)
	if err := srv.Router().Run(cfg.ListenAddr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func contextWithInterrupt() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}

// runImport validates a CSV file and creates its tasks, reporting the
// outcome on stdout.
func runImport(cfg *config.Config, path string) {
	client, cache := buildDeps(cfg)

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	ctx := contextWithInterrupt()
	wsCfg, err := cache.Config(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	res, err := csvimport.New(wsCfg).Read(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, issue := range res.SkippedColumns {
		if issue.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "skipping column %q (did you mean %q?)\n", issue.Header, issue.Suggestion)
		} else {
			fmt.Fprintf(os.Stderr, "skipping column %q\n", issue.Header)
		}
	}
	for _, rowErr := range res.RowErrors {
		fmt.Fprintf(os.Stderr, "row %d: %s\n", rowErr.Row, rowErr.Message)
	}

	created, failed := 0, 0
	for i := range res.Tasks {
		if _, err := client.CreateTask(ctx, &res.Tasks[i]); err != nil {
			fmt.Fprintf(os.Stderr, "create %q: %v\n", res.Tasks[i].Title, err)
			failed++
			continue
		}
		created++
	}
	fmt.Printf("created %d, failed %d, rejected rows %d\n", created, failed, len(res.RowErrors))
	if failed > 0 || len(res.RowErrors) > 0 {
		os.Exit(1)
	}
}
