// Command mapdump converts an alliance map dump (`var p = [...]`) into the
// village directory workbook read by the server.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"travian-planner/internal/mapdump"
	"travian-planner/internal/shared/config"
	"travian-planner/internal/shared/logger"
	"travian-planner/internal/spreadsheet"
	"travian-planner/internal/village"
)

func main() {
	in := flag.String("in", "rbl_alliance.txt", "map dump to read")
	out := flag.String("out", "travian_alliance.xlsx", "directory workbook to write")
	strict := flag.Bool("strict", false, "fail on the first malformed row instead of skipping it")
	level := flag.String("log-level", "info", "log level: debug, info, warn or error")
	flag.Parse()

	log := logger.New(os.Stderr, config.LoggingConfig{Level: *level})

	if err := run(*in, *out, *strict, log); err != nil {
		log.Error("Conversion failed", "error", err)
		os.Exit(1)
	}
}

func run(in, out string, strict bool, log *slog.Logger) error {
	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer src.Close()

	villages, err := convert(src, strict, log)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteVillages(&buf, villages); err != nil {
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	log.Info("Directory workbook written", "in", in, "out", out, "villages", len(villages))
	return nil
}

func convert(r io.Reader, strict bool, log *slog.Logger) ([]village.Village, error) {
	parse := mapdump.Parse
	if strict {
		parse = mapdump.ParseStrict
	}

	result, err := parse(r)
	if err != nil {
		return nil, err
	}

	for _, rowErr := range result.Errors {
		log.Warn("Skipped malformed row", "player", rowErr.Player, "village", rowErr.Village, "reason", rowErr.Reason)
	}

	return village.FromRecords(result.Records), nil
}
