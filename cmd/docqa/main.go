package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docqa/internal/app"
	"docqa/internal/config"
	"docqa/internal/extract"
	"docqa/internal/logging"
	"docqa/internal/tui"
)

const usage = "usage: docqa [--config=config.yaml] document.pdf|document.txt"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "docqa: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docqa/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) != 1 {
		return errors.New(usage)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Keep the terminal for the TUI.
	if cfg.Logging.Output == "stdout" || cfg.Logging.Output == "stderr" {
		cfg.Logging.Output = "discard"
	}
	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer closer.Close()

	svc, err := app.BuildService(cfg, logger)
	if err != nil {
		return fmt.Errorf("assemble service: %w", err)
	}

	text, err := extract.FromFile(inputs[0])
	if err != nil {
		return err
	}
	ctx := context.Background()
	n, err := svc.Ingest(ctx, text)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	title := fmt.Sprintf("%s: %d chunks", filepath.Base(inputs[0]), n)
	m := tui.New(ctx, svc, title)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
