// Package main provides the escovocab binary entry point. Escovocab
// generates a SKOS Turtle vocabulary document from ESCO-style CSV tables:
// concepts, groups, broader relations and collection memberships.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/janschachtschabel/skohub-esco-vocab/config"
	"github.com/janschachtschabel/skohub-esco-vocab/pipeline"
)

const (
	Version   = "1.0.0"
	BuildTime = "dev"
	appName   = "escovocab"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath  string
		profileName string
		lang        string
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "escovocab <data-dir> <output-file>",
		Short: "Generate a SKOS Turtle vocabulary from ESCO CSV tables",
		Long: `Escovocab reads an ESCO classification export (concepts, groups,
broader relations and collection membership tables) and writes one
self-consistent SKOS Turtle document with stable, deterministic
identifiers and byte-reproducible ordering.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], args[1], configPath, profileName, lang, logLevel)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML overrides)")
	cmd.Flags().StringVarP(&profileName, "profile", "p", "skills", "Dataset profile (skills, occupations)")
	cmd.Flags().StringVar(&lang, "lang", "", "Language tag for literals (default from profile)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func run(dataDir, outPath, configPath, profileName, lang, logLevel string) error {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	info, err := os.Stat(absDataDir)
	if err != nil {
		return fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", absDataDir)
	}

	cfg, err := config.ProfileByName(profileName)
	if err != nil {
		return err
	}
	if configPath != "" {
		overrides, err := config.LoadFromFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg.Merge(overrides)
		logger.Debug("Loaded config overrides", slog.String("path", configPath))
	}
	if lang != "" {
		cfg.Lang = lang
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("Starting generation",
		"profile", profileName,
		"data_dir", absDataDir,
		"output", outPath)

	p := pipeline.New(cfg, absDataDir, outPath, logger)
	stats, err := p.Run(context.Background())
	if err != nil {
		return err
	}

	printSummary(os.Stdout, cfg, stats, outPath)
	return nil
}

// printSummary prints the run report consumed by humans; all counts come
// from the pipeline's Stats value.
func printSummary(w *os.File, cfg *config.Config, stats pipeline.Stats, outPath string) {
	line := strings.Repeat("=", 60)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "%s GENERATION REPORT\n", strings.ToUpper(cfg.Scheme.Title))
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Concepts loaded:        %6d\n", stats.Concepts)
	fmt.Fprintf(w, "Groups loaded:          %6d\n", stats.Groups)
	fmt.Fprintf(w, "Hierarchy edges:        %6d\n", stats.Edges)
	fmt.Fprintf(w, "Top-level concepts:     %6d\n", stats.TopLevel)
	fmt.Fprintf(w, "Skipped rows:           %6d\n", stats.SkippedRows)
	fmt.Fprintf(w, "Orphan references:      %6d\n", stats.OrphanRefs)
	fmt.Fprintf(w, "Duplicate parents:      %6d\n", stats.DuplicateParents)
	fmt.Fprintf(w, "Cycle warnings:         %6d\n", stats.CycleWarnings)

	if len(stats.CollectionSizes) > 0 {
		fmt.Fprintln(w, "\nCOLLECTION SIZES:")
		names := make([]string, 0, len(stats.CollectionSizes))
		for name := range stats.CollectionSizes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %-12s: %d\n", name, stats.CollectionSizes[name])
		}
	}

	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Output file: %s\n", outPath)
}
