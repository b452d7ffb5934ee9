package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/config"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/logging"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio"
)

func main() {
	snapshotFlag := flag.Bool("snapshot", false, "fetch every configured source instead of reading a document")
	timeoutFlag := flag.Duration("timeout", 30*time.Second, "snapshot timeout")
	flag.Parse()

	if *snapshotFlag {
		runSnapshot(*timeoutFlag)
		return
	}
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: portfolio-extract <README.md|->\n       portfolio-extract -snapshot")
		os.Exit(2)
	}
	doc, err := readInput(strings.TrimSpace(flag.Arg(0)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "read error: %v\n", err)
		os.Exit(1)
	}
	svc := portfolio.NewService(portfolio.Deps{}, quietLogger())
	encode(svc.Extract(doc))
}

func runSnapshot(timeout time.Duration) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}
	// stdout carries the JSON document.
	logger, cleanup, err := logging.NewWriter(cfg.Logging, "portfolio-extract", os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log error: %v\n", err)
		os.Exit(2)
	}
	defer func() {
		_ = cleanup()
	}()
	svc, err := portfolio.Build(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup error: %v\n", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	encode(svc.Snapshot(ctx))
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func encode(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
