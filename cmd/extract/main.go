// Command extract runs one ingredient extraction from the command line.
//
//	extract -url https://www.youtube.com/shorts/abc123 [-description "..."] [-timeout 60s] [-json]
//
// Configuration is read from the environment and an optional .env file, the
// same as the server. Logs go to stderr so -json output can be piped.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shimizu-Technology/bitelist-api/internal/app"
	"github.com/Shimizu-Technology/bitelist-api/internal/config"
	"github.com/Shimizu-Technology/bitelist-api/internal/models"
	"github.com/Shimizu-Technology/bitelist-api/internal/services/video"
)

func main() {
	url := flag.String("url", "", "YouTube or Instagram video URL")
	description := flag.String("description", "", "optional text describing the ingredients")
	timeout := flag.Duration("timeout", 60*time.Second, "overall extraction timeout")
	asJSON := flag.Bool("json", false, "print the result as JSON")
	flag.Parse()

	if *url == "" {
		fmt.Fprintln(os.Stderr, "Usage: extract -url <video-url> [-description <text>] [-timeout 60s] [-json]")
		fmt.Fprintln(os.Stderr, "\nExample:")
		fmt.Fprintln(os.Stderr, "  extract -url https://www.youtube.com/shorts/dQw4w9WgXcQ")
		os.Exit(2)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	log.SetOutput(os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Println("🛑 Interrupted, cancelling...")
		cancel()
	}()

	pipeline, err := app.NewPipeline(ctx, cfg)
	if err != nil {
		logger.Fatalf("❌ Failed to set up pipeline: %v", err)
	}

	result, err := pipeline.Orchestrator.Extract(ctx, models.ExtractionRequest{
		VideoURL:        *url,
		UserDescription: *description,
	})
	if err != nil {
		logger.Printf("❌ Extraction failed: %v", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			logger.Fatalf("❌ Failed to encode result: %v", err)
		}
		return
	}

	printResult(result)
}

func printResult(r *models.ExtractionResult) {
	fmt.Printf("Video:    %s (%s)\n", video.CanonicalURL(r.Video), r.Video.Platform)
	fmt.Printf("Source:   %s\n", r.Source)
	fmt.Printf("Model:    %t\n", r.UsedModel)

	if len(r.Ingredients) == 0 {
		fmt.Println("\nNo ingredients found.")
		return
	}

	fmt.Printf("\nIngredients (%d):\n", len(r.Ingredients))
	for i, ing := range r.Ingredients {
		fmt.Printf("%3d. %s\n", i+1, ing)
	}
}
