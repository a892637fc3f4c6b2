package main

import (
	"context"
	"log"
	"time"

	"complaintflow/internal/activities"
	"complaintflow/internal/config"
	"complaintflow/internal/storage"
	"complaintflow/internal/vectorindex"
	"complaintflow/internal/workflows"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{})
	workflows.Register(w)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal(err)
	}
	index := vectorindex.New(vectorindex.Config{
		URL:        cfg.QdrantURL,
		APIKey:     cfg.QdrantAPIKey,
		Collection: cfg.QdrantCollection,
	})
	if err := index.EnsureCollection(ctx, cfg.EmbedDim); err != nil {
		log.Fatal(err)
	}

	a, err := activities.New(cfg, db)
	if err != nil {
		log.Fatal(err)
	}
	activities.Register(w, a)

	log.Printf("complaintflow worker listening on %s queue=%s llm_provider=%q embed_provider=%q", cfg.TemporalAddress, cfg.TemporalTaskQueue, cfg.LLMProvider, cfg.EmbedProvider)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatal(err)
	}
}
