package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"chat-insights-go/internal/config"
	"chat-insights-go/internal/dataset"
	"chat-insights-go/internal/logger"
	"chat-insights-go/internal/master"
	"chat-insights-go/internal/metrics"
	"chat-insights-go/internal/preprocess"
	"chat-insights-go/internal/responsetime"
)

// Fetcher retrieves a conversation export for a named view.
type Fetcher interface {
	Fetch(ctx context.Context, view, destPath string) error
}

// Participating columns per push, matching the master sheet headers.
var (
	responseColumns = []string{
		"AVG initial",
		"AVG non_initial",
		"Count of >=4 mins initial",
		"Count of >=4 mins non_initial",
	}
	repetitionColumns = []string{
		"% of Repetition",
		"Chats with repetitions",
		"Total chats with bot interactions",
	}
	botHandleColumns = []string{
		"Total chats",
		"Conversations Fully Handeled by Bot",
		"Bot Handle Ratio",
	}
)

// Runner executes one end-to-end batch run for a single view.
type Runner struct {
	cfg   config.Run
	fetch Fetcher
	store *master.Store
	log   *logrus.Entry
}

func New(cfg config.Run, fetch Fetcher, store *master.Store) *Runner {
	return &Runner{
		cfg:   cfg,
		fetch: fetch,
		store: store,
		log:   logger.New().WithRun(cfg.View, cfg.Department),
	}
}

// Run fetches, cleans, computes, and pushes. Only the fetch/load stages are
// fatal: each metric push isolates its own failure so one broken merge cannot
// drop the other metrics.
func (r *Runner) Run(ctx context.Context) error {
	exportPath := r.cfg.ExportPath()

	if r.fetch != nil {
		r.log.Info("fetching conversation export")
		if err := r.fetch.Fetch(ctx, r.cfg.View, exportPath); err != nil {
			return fmt.Errorf("fetch export: %w", err)
		}
	} else {
		r.log.WithField("path", exportPath).Warn("no export source configured, using local file")
	}

	table, err := dataset.Load(exportPath)
	if err != nil {
		return fmt.Errorf("load export: %w", err)
	}

	dayStamp := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(r.cfg.OutDir, fmt.Sprintf("%s_%s.csv", r.cfg.Department, dayStamp))
	table, err = preprocess.Clean(table, auditPath)
	if err != nil {
		return fmt.Errorf("preprocess export: %w", err)
	}

	convs := dataset.Conversations(table.Messages)
	r.log.WithField("conversations", len(convs)).Info("export grouped")

	first := responsetime.Scan(convs, responsetime.FirstResponse)
	subsequent := responsetime.Scan(convs, responsetime.SubsequentResponses)
	r.log.WithFields(logrus.Fields{
		"first_response_events":      len(first),
		"subsequent_response_events": len(subsequent),
	}).Info("response latencies computed")

	firstPath := filepath.Join(r.cfg.OutDir, fmt.Sprintf("FRT_Raw_%s_%s.csv", r.cfg.Department, dayStamp))
	if err := dataset.WriteResponseEvents(firstPath, first); err != nil {
		return fmt.Errorf("write first-response table: %w", err)
	}
	subPath := filepath.Join(r.cfg.OutDir, fmt.Sprintf("non_initial_response_times_%s_%s.csv", r.cfg.Department, dayStamp))
	if err := dataset.WriteResponseEvents(subPath, subsequent); err != nil {
		return fmt.Errorf("write subsequent-response table: %w", err)
	}

	summary := metrics.SummarizeResponses(first, subsequent, r.cfg.SkillFilter, r.cfg.BotFilter)
	r.log.WithFields(logrus.Fields{
		"avg_initial":            summary.AvgInitial,
		"avg_non_initial":        summary.AvgNonInitial,
		"slow_initial_count":     summary.CountSlowInitial,
		"slow_non_initial_count": summary.CountSlowNonInitial,
	}).Info("response summary computed")
	r.push(summary.Row(), responseColumns, "metrics")

	reps := metrics.DetectRepetitions(convs, r.cfg.SkillFilter)
	repsStamp := time.Now().Format("2006-01-02_15-04-05")
	repsPath := filepath.Join(r.cfg.OutDir, fmt.Sprintf("repetitions_df_%s_%s.csv", strings.ToLower(r.cfg.Department), repsStamp))
	if err := dataset.WriteRepetitions(repsPath, reps.Records); err != nil {
		r.log.WithError(err).Error("write repetitions table failed")
	}
	r.push(reps.Row(), repetitionColumns, "repetition_metrics")

	handle := metrics.DetectBotHandle(convs, r.cfg.SkillFilter)
	r.push(handle.Row(), botHandleColumns, "bot_handle_metrics")

	r.log.Info("run complete")
	return nil
}

// push merges one metrics row into the master sheet. The store already
// degrades to a fallback file on merge failure, so errors here are logged
// and do not stop the remaining pushes.
func (r *Runner) push(row map[string]float64, columns []string, fallbackPrefix string) {
	if err := r.store.Push(r.cfg.Department, row, columns, fallbackPrefix); err != nil {
		r.log.WithError(err).WithField("push", fallbackPrefix).Error("metrics push failed")
	}
}
