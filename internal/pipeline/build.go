package pipeline

import (
	"fmt"

	"github.com/ppiankov/claimcheck/internal/cache"
	"github.com/ppiankov/claimcheck/internal/extract"
	"github.com/ppiankov/claimcheck/internal/facts"
	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/logging"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/retrieve"
	"github.com/ppiankov/claimcheck/internal/util"
	"github.com/ppiankov/claimcheck/internal/worker"
	"go.uber.org/zap"
)

// Build assembles an engine with live sources from the configuration
func Build(cfg *model.Config, logger *zap.Logger) (*Engine, error) {
	logger = logging.OrNop(logger)

	table, err := LoadFacts(cfg.Facts)
	if err != nil {
		return nil, err
	}

	client := util.NewHTTPClient(cfg.HTTP)
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	fetcher := util.NewFetcher(client, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, limiter)

	readerOpts := []extract.ReaderOption{
		extract.WithMaxText(cfg.Retrieval.MaxFullText),
		extract.WithLogger(logger),
	}
	if cfg.HTTP.RespectRobots {
		readerOpts = append(readerOpts, extract.WithRobots(util.NewRobotsChecker(client, cfg.HTTP.UserAgent), limiter))
	}

	registry := Sources(cfg.Retrieval, fetcher)
	if registry.Len() == 0 {
		return nil, fmt.Errorf("no retrieval sources enabled")
	}

	retriever := retrieve.NewRetriever(
		registry,
		extract.NewReader(fetcher, readerOpts...),
		cache.NewHitStore(cache.New(cfg.Cache), cfg.Cache.DiskTTL),
		retrieve.Options{
			MaxEvidence: cfg.Retrieval.MaxEvidence,
			Parallelism: cfg.Retrieval.Parallelism,
			CallTimeout: cfg.HTTP.Timeout,
			EnrichTop:   cfg.Retrieval.EnrichTop,
		},
		logger,
	)

	opts := []Option{WithLogger(logger)}
	summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM, client), logger)
	if err != nil {
		logger.Warn("narrative disabled", zap.Error(err))
	} else if summarizer.IsEnabled() {
		opts = append(opts, WithNarrator(summarizer))
	}

	return NewEngine(cfg, facts.NewLayer(table), retriever, opts...), nil
}

// LoadFacts returns the rule table from cfg.RulesFile, or the built-in table
func LoadFacts(cfg model.FactsConfig) (*facts.Table, error) {
	if cfg.RulesFile == "" {
		return facts.Default(), nil
	}
	table, err := facts.Load(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("load fact rules: %w", err)
	}
	return table, nil
}

// Sources registers the enabled search sources in query order:
// encyclopedia, instant answer, news
func Sources(cfg model.RetrievalConfig, fetcher *util.Fetcher) *retrieve.Registry {
	registry := retrieve.NewRegistry()
	if cfg.Encyclopedia.Enabled {
		registry.Register(retrieve.NewWikipedia(fetcher, cfg.Encyclopedia.Endpoint, cfg.PerQueryLimit))
	}
	if cfg.InstantAnswer.Enabled {
		registry.Register(retrieve.NewInstantAnswer(fetcher, cfg.InstantAnswer.Endpoint, cfg.PerQueryLimit))
	}
	if cfg.News.Enabled {
		registry.Register(retrieve.NewNews(fetcher, cfg.News.Endpoint, cfg.PerQueryLimit))
	}
	return registry
}
