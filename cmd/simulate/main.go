package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/milk9111/swingkit/batch"
	"github.com/milk9111/swingkit/levels"
	"github.com/milk9111/swingkit/logging"
	"github.com/milk9111/swingkit/prefabs"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type summary struct {
	Batch   string         `yaml:"batch"`
	Started time.Time      `yaml:"started"`
	Runs    []batch.Result `yaml:"runs"`
	Failed  int            `yaml:"failed"`
}

func main() {
	scripts := flag.String("scripts", "", "comma separated driver scripts (default: all embedded scripts)")
	levelName := flag.String("level", levels.DefaultLevel, "level name in levels/ (basename, .json optional)")
	playerFile := flag.String("player", prefabs.PlayerFile, "player tunables file in prefabs/")
	models := flag.String("models", "constraint", "comma separated grapple models to run each script with")
	ticks := flag.Int("ticks", batch.DefaultTicks, "fixed steps per run")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel runs")
	out := flag.String("out", "", "write the YAML summary here instead of stdout")
	flag.Parse()

	logger, err := logging.New(logging.ConfigFromEnv())
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	spec, err := prefabs.LoadPlayerSpecFile(*playerFile)
	if err != nil {
		logger.Fatal("load player", zap.Error(err))
	}

	names := splitList(*scripts)
	if len(names) == 0 {
		for _, s := range prefabs.Scripts() {
			names = append(names, strings.TrimSuffix(s, ".tengo"))
		}
	}
	var jobs []batch.Job
	for _, name := range names {
		for _, model := range splitList(*models) {
			jobs = append(jobs, batch.Job{
				Script: name,
				Level:  *levelName,
				Player: spec,
				Model:  model,
				Ticks:  *ticks,
			})
		}
	}

	runner, err := batch.NewRunner(*workers, logger)
	if err != nil {
		logger.Fatal("create runner", zap.Error(err))
	}
	defer runner.Close()

	sum := summary{Batch: uuid.NewString(), Started: time.Now().UTC()}
	logger.Info("batch started",
		zap.String("batch", sum.Batch),
		zap.Int("jobs", len(jobs)),
		zap.Int("workers", *workers))

	sum.Runs, err = runner.Run(ctx, jobs)
	if err != nil {
		logger.Error("batch interrupted", zap.Error(err))
	}
	for _, r := range sum.Runs {
		if r.Failed() {
			sum.Failed++
		}
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Fatal("create output", zap.Error(err))
		}
		defer f.Close()
		w = f
	}
	if err := writeSummary(w, sum); err != nil {
		logger.Fatal("write summary", zap.Error(err))
	}
	logger.Info("batch finished", zap.String("batch", sum.Batch), zap.Int("failed", sum.Failed))
	if sum.Failed > 0 {
		os.Exit(1)
	}
}

func writeSummary(w io.Writer, sum summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sum); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return enc.Close()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
