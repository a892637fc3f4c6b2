package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"complaintflow/internal/config"
	"complaintflow/internal/models"
	"complaintflow/internal/pipeline"
	"complaintflow/internal/workflows"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
)

// ingest submits a search-export JSON file as a batch workflow and waits for
// the per-record outcome report.
func main() {
	file := flag.String("file", "", "path to a search-export JSON file (array of {_id,_source} records)")
	concurrent := flag.Int("concurrent", 0, "max child workflows in flight (0 uses the configured default)")
	flag.Parse()
	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load(".env")
	cfg := config.Load()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal(err)
	}
	var export []models.ExportRecord
	if err := json.Unmarshal(raw, &export); err != nil {
		log.Fatalf("parse %s: %v", *file, err)
	}
	records := make([]models.ComplaintInput, 0, len(export))
	for _, r := range export {
		records = append(records, pipeline.FromExportRecord(r))
	}

	window := *concurrent
	if window <= 0 {
		window = cfg.IngestMaxChildren
	}

	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	we, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                    fmt.Sprintf("batch-ingest-%s", uuid.NewString()[:8]),
		TaskQueue:             cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, workflows.BatchIngestWorkflow, workflows.BatchIngestInput{
		Records:       records,
		MaxConcurrent: window,
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("started batch workflow_id=%s run_id=%s records=%d", we.GetID(), we.GetRunID(), len(records))

	start := time.Now()
	var progress workflows.BatchIngestProgress
	if err := we.Get(ctx, &progress); err != nil {
		log.Fatal(err)
	}

	for key, status := range progress.PerItem {
		fmt.Printf("%-40s %s\n", key, status)
	}
	fmt.Printf("batch complete: total=%d done=%d failed=%d elapsed=%s\n",
		progress.Total, progress.Done, progress.Failed, time.Since(start).Round(time.Millisecond))
	if progress.Failed > 0 {
		os.Exit(1)
	}
}
