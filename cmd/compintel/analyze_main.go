package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/flipwell/compintel/internal/config"
	"github.com/flipwell/compintel/internal/domain"
	"github.com/flipwell/compintel/internal/pipeline"
	"github.com/flipwell/compintel/internal/vocab"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze assets from a JSON file and print reports",
		Long: `Reads asset inputs (raw transaction rows, process records, size figures)
from a JSON file, runs the full pipeline, and prints the batch result as JSON
on stdout. Failed assets occupy their own slots; siblings are unaffected.`,
		RunE: runAnalyze,
	}
	cmd.Flags().String("input", "", "Path to JSON file with {\"assets\": [...]}")
	cmd.Flags().String("out", "", "Write the result to this file instead of stdout")
	cmd.Flags().Bool("pretty", false, "Indent the JSON output")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	table, err := resolveVocab(cfg)
	if err != nil {
		return err
	}

	inputPath, _ := cmd.Flags().GetString("input")
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var payload struct {
		Assets []domain.AssetInput `json:"assets"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("parse input %s: %w", inputPath, err)
	}
	if len(payload.Assets) == 0 {
		return fmt.Errorf("input %s holds no assets", inputPath)
	}
	if len(payload.Assets) > cfg.Batch.MaxAssets {
		return fmt.Errorf("batch size %d exceeds limit %d", len(payload.Assets), cfg.Batch.MaxAssets)
	}

	analyzer := pipeline.NewAnalyzer(cfg.Analyzer, table, nil)
	result := analyzer.RunBatch(context.Background(), payload.Assets, cfg.Batch.Workers)

	var out []byte
	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
		out, err = json.MarshalIndent(result, "", "  ")
	} else {
		out, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		if err := os.WriteFile(outPath, append(out, '\n'), 0o644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		log.Info().Str("run", result.RunID).Str("path", outPath).Msg("result written")
		return nil
	}

	fmt.Println(string(out))
	return nil
}

func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func resolveVocab(cfg *config.Config) (*vocab.Table, error) {
	if cfg.VocabPath == "" {
		return vocab.Default(), nil
	}
	return vocab.Load(cfg.VocabPath)
}
