// ABOUTME: Shared wiring for CLI commands: config, stores, validator, manager
// ABOUTME: Builds the dependency graph once per command invocation
package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harper/rulekeeper/internal/config"
	"github.com/harper/rulekeeper/internal/llm"
	"github.com/harper/rulekeeper/internal/manager"
	"github.com/harper/rulekeeper/internal/rules"
	"github.com/harper/rulekeeper/internal/segment"
	"github.com/harper/rulekeeper/internal/validate"
	"github.com/harper/rulekeeper/internal/vector"
	"github.com/harper/rulekeeper/internal/vector/charmkv"
	"github.com/harper/rulekeeper/internal/vector/sqlite"
)

// app bundles the wired dependencies for one command invocation.
type app struct {
	cfg     *config.Config
	manager *manager.Manager
	vectors vector.Store
}

// openApp loads configuration and wires the manager. Commands that only read
// or delete rules pass requireLLM=false and work without an API key.
func openApp(requireLLM bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if quiet {
		logger.SetLevel(log.ErrorLevel)
	}

	ruleStore, err := rules.Open(cfg.RulesPath())
	if err != nil {
		return nil, fmt.Errorf("opening rule store: %w", err)
	}

	vectors, err := openVectorStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}

	var client *llm.Client
	if cfg.OpenAIKey != "" {
		client, err = llm.NewClientWithConfig(&llm.ClientConfig{
			APIKey:         cfg.OpenAIKey,
			ChatModel:      cfg.ChatModel,
			EmbeddingModel: cfg.EmbeddingModel,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RetryDelay:     cfg.RetryDelay,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing OpenAI client: %w", err)
		}
	} else if requireLLM {
		return nil, fmt.Errorf("OPENAI_API_KEY not set - validation and titling need it")
	}

	var validator validate.Validator
	var indexer validate.Indexer
	var titles manager.TitleGenerator

	if client != nil {
		seg := segment.New(cfg.MinSegmentLength)

		embeddingValidator := newEmbeddingValidator(cfg, client, seg, vectors)
		embeddingValidator.SetLogger(logger)
		indexer = embeddingValidator
		titles = client

		if cfg.Validator == config.ValidatorLLM {
			llmValidator := validate.NewLLMValidator(client)
			llmValidator.SetLogger(logger)
			validator = llmValidator
		} else {
			validator = embeddingValidator
		}
	}

	mgr := manager.New(ruleStore, validator, indexer, titles)
	mgr.SetLogger(logger)

	return &app{cfg: cfg, manager: mgr, vectors: vectors}, nil
}

func newEmbeddingValidator(cfg *config.Config, client *llm.Client, seg *segment.Segmenter, vectors vector.Store) *validate.EmbeddingValidator {
	if vectors != nil {
		return validate.NewIndexedValidator(client, seg, vectors, cfg.SimilarityThreshold, cfg.SearchLimit)
	}
	return validate.NewEmbeddingValidator(client, seg, cfg.SimilarityThreshold)
}

func openVectorStore(cfg *config.Config) (vector.Store, error) {
	switch cfg.VectorBackend {
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.VectorDBPath())
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(db, llm.DimensionForModel(cfg.EmbeddingModel)), nil
	case config.BackendCharm:
		charmCfg := charmkv.DefaultConfig()
		if cfg.CharmHost != "" {
			charmCfg.Host = cfg.CharmHost
		}
		if cfg.CharmDBName != "" {
			charmCfg.DBName = cfg.CharmDBName
		}
		return charmkv.Open(charmCfg)
	default:
		// "none" runs the validator in pairwise mode
		return nil, nil
	}
}

// close releases the vector store connection.
func (a *app) close() {
	if a.vectors != nil {
		_ = a.vectors.Close()
	}
}
