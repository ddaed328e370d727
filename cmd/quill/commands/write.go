package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/generate"
	"github.com/quillhq/quill/internal/human"
	"github.com/quillhq/quill/internal/printer"
	"github.com/quillhq/quill/internal/search"
	"github.com/quillhq/quill/internal/workflow"
	"github.com/quillhq/quill/pkg/blackboard"
)

var (
	writeTopic      string
	writeCodePath   string
	writeConfigPath string
	writeOutPath    string
	writeRedisURL   string
	writeSearch     bool
	writeVerbose    bool
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Run the full writing pipeline for a topic",
	Long: `Run the full supervised pipeline: analyze the codebase (optional),
generate a validated outline, draft the post after your approval, revise it
as many times as you ask, derive social media posts, and export the result.

The run suspends at each approval point and resumes on your answer.

Examples:
  # Write about a topic
  quill write --topic "Error handling patterns in Go"

  # Ground the post in a codebase
  quill write --topic "How our rate limiter works" --code ./ratelimiter

  # Keep the run's artifacts in Redis for later inspection
  quill write --topic "Release notes deep dive" --redis redis://localhost:6379/0`,
	RunE: runWrite,
}

func init() {
	writeCmd.Flags().StringVarP(&writeTopic, "topic", "t", "", "Topic of the post (required)")
	writeCmd.Flags().StringVarP(&writeCodePath, "code", "c", "", "Codebase directory to summarize for context")
	writeCmd.Flags().StringVar(&writeConfigPath, "config", "", "Path to quill.yml (defaults apply if omitted)")
	writeCmd.Flags().StringVarP(&writeOutPath, "out", "o", "post.md", "Default export path (you confirm it at export)")
	writeCmd.Flags().StringVar(&writeRedisURL, "redis", "", "Redis URL for a persistent blackboard (in-memory if omitted)")
	writeCmd.Flags().BoolVar(&writeSearch, "search", false, "Augment planning with web search")
	writeCmd.Flags().BoolVarP(&writeVerbose, "verbose", "v", false, "Log structured pipeline events")
	writeCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gen, err := generate.NewAnthropic(generate.AnthropicConfig{
		FastModel:    cfg.Models.Fast,
		QualityModel: cfg.Models.Quality,
		Timeout:      cfg.Timeout(),
	})
	if err != nil {
		return printer.Error(
			"generation capability unavailable",
			fmt.Sprintf("Error: %v", err),
			[]string{"Set the API key:\n  export ANTHROPIC_API_KEY=sk-..."},
		)
	}

	runID := uuid.New().String()

	store, err := openStore(ctx, cfg, runID)
	if err != nil {
		return err
	}
	defer store.Close()

	var searcher search.Searcher
	if writeSearch || cfg.SearchEnabled {
		searcher = search.NewDuckDuckGo()
	}

	var observer workflow.Observer
	if writeVerbose {
		observer = workflow.NewLogObserver("quill")
	}

	controller := workflow.NewController(store, human.NewTerminal(), gen, searcher, workflow.Options{
		Topic:           writeTopic,
		CodebasePath:    writeCodePath,
		AnalyzeCodebase: *cfg.Analysis.Enabled && writeCodePath != "",
		MaxIterations:   *cfg.MaxIterations,
		DefaultFilename: writeOutPath,
		RunID:           runID,
		Observer:        observer,
	})

	printer.Phase("Starting run")
	printer.Info("Topic: %s\n", writeTopic)
	if writeCodePath != "" {
		printer.Info("Codebase: %s\n", writeCodePath)
	}

	runErr := controller.Run(ctx)
	if errors.Is(runErr, workflow.ErrRunAborted) {
		printer.Warning("Run aborted.\n")
		return nil
	}
	if runErr != nil {
		return printer.Error(
			"run failed",
			fmt.Sprintf("Error: %v", runErr),
			[]string{"Re-run with --verbose to see pipeline events:\n  quill write --verbose --topic \"...\""},
		)
	}

	if social, err := store.Read(ctx, blackboard.SlotSocialPosts); err == nil {
		printer.Phase("Social media posts")
		printer.Println(social)
	}

	printer.Success("Done.\n")
	return nil
}

func loadConfig() (*config.QuillConfig, error) {
	if writeConfigPath == "" {
		if _, err := os.Stat("quill.yml"); err == nil {
			writeConfigPath = "quill.yml"
		} else {
			return config.Default(), nil
		}
	}

	cfg, err := config.Load(writeConfigPath)
	if err != nil {
		return nil, printer.Error(
			"invalid configuration",
			fmt.Sprintf("Error: %v", err),
			[]string{fmt.Sprintf("Check the file:\n  cat %s", writeConfigPath)},
		)
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.QuillConfig, runID string) (blackboard.Store, error) {
	redisURL := writeRedisURL
	if redisURL == "" {
		redisURL = cfg.RedisURL
	}
	if redisURL == "" {
		return blackboard.NewMemoryStore(), nil
	}

	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, printer.Error(
			"invalid Redis URL",
			fmt.Sprintf("Error: %v", err),
			[]string{"Use the form:\n  redis://localhost:6379/0"},
		)
	}

	store, err := blackboard.NewRedisStore(redisOpts, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to create blackboard store: %w", err)
	}
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, printer.Error(
			"Redis not accessible",
			fmt.Sprintf("Error: %v", err),
			[]string{
				"Start Redis first:\n  docker run -d -p 6379:6379 redis:7",
				"Or drop --redis to use the in-memory blackboard",
			},
		)
	}

	printer.Step("Blackboard persisted to Redis (run %s)\n", runID)
	return store, nil
}
