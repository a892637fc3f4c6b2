package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"complaintflow/internal/api"
	"complaintflow/internal/config"
	"complaintflow/internal/enrich"
	"complaintflow/internal/pipeline"
	"complaintflow/internal/providers"
	"complaintflow/internal/storage"
	"complaintflow/internal/vectorindex"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	log := cfg.NewLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("postgres connect", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		log.Error("ensure schema", "err", err)
		os.Exit(1)
	}

	index := vectorindex.New(vectorindex.Config{
		URL:        cfg.QdrantURL,
		APIKey:     cfg.QdrantAPIKey,
		Collection: cfg.QdrantCollection,
	})
	if err := index.EnsureCollection(ctx, cfg.EmbedDim); err != nil {
		log.Error("ensure collection", "err", err)
		os.Exit(1)
	}

	llm, err := providers.NewLLM(cfg.LLMProvider, cfg.EmbedDim)
	if err != nil {
		log.Error("llm provider", "err", err)
		os.Exit(1)
	}
	embedder, err := providers.NewEmbedder(cfg.EmbedProvider, cfg.EmbedDim)
	if err != nil {
		log.Error("embedding provider", "err", err)
		os.Exit(1)
	}

	pipe := pipeline.New(
		storage.NewComplaintRepo(db),
		storage.NewCategoryRepo(db),
		enrich.New(llm, cfg.SummaryMaxTokens),
		embedder,
		index,
		cfg.EmbedDim,
		log,
	)
	srv := api.NewServer(pipe, log)

	log.Info("complaintflow api listening", "addr", cfg.APIAddr, "llm_provider", cfg.LLMProvider, "embed_provider", cfg.EmbedProvider)
	if err := http.ListenAndServe(cfg.APIAddr, srv.Routes()); err != nil {
		log.Error("serve", "err", err)
		os.Exit(1)
	}
}
