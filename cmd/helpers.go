package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/helpdeskhq/waverly/internal/config"
	"github.com/helpdeskhq/waverly/internal/crm"
	"github.com/helpdeskhq/waverly/internal/db"
	"github.com/helpdeskhq/waverly/internal/embeddings"
	"github.com/helpdeskhq/waverly/internal/handoff"
	"github.com/helpdeskhq/waverly/internal/knowledge"
	"github.com/helpdeskhq/waverly/internal/llm"
	"github.com/helpdeskhq/waverly/internal/memory"
	"github.com/helpdeskhq/waverly/internal/phone"
	"github.com/helpdeskhq/waverly/internal/pipeline"
)

// stack bundles the wired application components shared by the serve, mcp,
// and import commands.
type stack struct {
	cfg        *config.Config
	database   *db.DB
	store      *knowledge.Store
	memory     *memory.Store
	policy     *handoff.Policy
	normalizer *phone.Normalizer
	resolver   *crm.Resolver
	kb         crm.KnowledgeSearcher
	provider   llm.Provider
	vectorDir  string
}

// buildStack loads config and constructs every component of the reply
// pipeline. The vector index is loaded from disk best-effort; a missing
// snapshot just means an empty index.
func buildStack(cfgPath string) (*stack, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	database, err := db.Open(filepath.Join(cfg.DataDir, "waverly.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	embedder := embeddings.NewEmbedder(cfg.EmbeddingModel)
	index, err := knowledge.NewVectorIndex(embedder)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("creating vector index: %w", err)
	}
	store := knowledge.NewStore(knowledge.NewEntryStore(database), index)

	vectorDir := filepath.Join(cfg.DataDir, "vectors")
	if err := store.Load(context.Background(), vectorDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load vector index from %s: %v\n", vectorDir, err)
	}

	normalizer := phone.New(cfg.Phone.CountryCode, cfg.Phone.NationalLen)
	crmClient := crm.NewClient(cfg.CRM)

	policy, err := handoff.NewPolicy(cfg.HandoffRulesFile)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("loading handoff rules: %w", err)
	}

	return &stack{
		cfg:        cfg,
		database:   database,
		store:      store,
		memory:     memory.NewStore(0),
		policy:     policy,
		normalizer: normalizer,
		resolver:   crm.NewResolver(crmClient, normalizer),
		kb:         crmClient.KnowledgeBase(),
		provider:   llm.NewProvider(cfg.Model, cfg.RequestsPerMinute),
		vectorDir:  vectorDir,
	}, nil
}

// responder builds the reply pipeline over the stack. events may be nil.
func (s *stack) responder(events pipeline.EventSink) *pipeline.Responder {
	return pipeline.New(s.cfg, s.store, s.memory, s.resolver, s.kb,
		s.policy, s.provider, s.normalizer, events)
}

// close releases the stack's resources, persisting the vector index
// first.
func (s *stack) close() {
	if err := s.store.Persist(context.Background(), s.vectorDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: persisting vector index: %v\n", err)
	}
	s.database.Close()
}
