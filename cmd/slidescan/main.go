package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dkrasnov/slidescan/internal/config"
	"github.com/dkrasnov/slidescan/internal/detect"
	"github.com/dkrasnov/slidescan/internal/server"
	"github.com/dkrasnov/slidescan/internal/store"
)

func main() {
	videoPath := flag.String("video", "", "Scan a single video, print segments as JSON and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	detectCfg := detect.Config{
		MinSceneDuration: cfg.MinSceneDuration,
		MinAreaRatio:     cfg.MinAreaRatio,
		WorkingWidth:     cfg.WorkingWidth,
	}

	if *videoPath != "" {
		runScan(detectCfg, *videoPath)
		return
	}

	serve(cfg, detectCfg)
}

// runScan performs a one-shot scan and prints the segments to stdout.
func runScan(cfg detect.Config, path string) {
	segments, err := detect.New(cfg).ProcessVideo(path)
	if err != nil {
		log.Fatalf("Failed to process video: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(segments); err != nil {
		log.Fatalf("Failed to encode segments: %v", err)
	}
}

// serve runs the HTTP API with a SQLite-backed scan store.
func serve(cfg *config.Config, detectCfg detect.Config) {
	fmt.Println("slidescan - Slide Transition Detection")

	dbPath := cfg.DBPath
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}

		dataDir := filepath.Join(homeDir, ".slidescan")
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}

		dbPath = filepath.Join(dataDir, "slidescan.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	srv := server.New(server.Config{
		StaticDir: cfg.StaticDir,
		Store:     st,
		Detect:    detectCfg,
	})

	fmt.Printf("Starting server on %s\n", cfg.ListenAddr)
	if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
