package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/limaJavier/labscheduling/internal/config"
	"github.com/limaJavier/labscheduling/internal/metrics"
	"github.com/limaJavier/labscheduling/pkg/export"
	"github.com/limaJavier/labscheduling/pkg/model"
	"github.com/limaJavier/labscheduling/pkg/sat"
	"github.com/limaJavier/labscheduling/pkg/tabular"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CodeSuccess = 0
	CodeFailure = 2
)

// Progress checkpoints of a run, in percent
const (
	progressConfigured  = 10
	progressLoaded      = 25
	progressPartitioned = 40
	progressOptimized   = 80
	progressDone        = 100
)

type Request struct {
	Sources    tabular.Sources
	OutputPath string // Overrides the configured output path when set
}

// Result is the outcome of a run. Code 0 means a schedule was produced, possibly with unassigned groups
type Result struct {
	RunId       string         `json:"run_id"`
	Code        int            `json:"code"`
	Message     string         `json:"message"`
	Strategy    string         `json:"strategy,omitempty"`
	Assignments []export.Row   `json:"assignments"`
	Stats       *model.Stats   `json:"stats,omitempty"`
	OutputPath  string         `json:"output_path,omitempty"`
	Schedule    model.Schedule `json:"-"`
}

type Planner struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	solver  sat.SATSolver
}

func New(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		solver:  sat.NewGiniSolver(),
	}
}

// Run loads the sources, builds the groups and slots, schedules them and exports the result. It never panics
func (planner *Planner) Run(ctx context.Context, request Request, progress model.Progress) (result Result) {
	runId := uuid.NewString()
	logger := planner.logger.With(zap.String("run_id", runId))
	report := monotonic(progress)
	started := time.Now()

	result = Result{RunId: runId, Assignments: []export.Row{}}
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("run panicked", zap.Any("panic", recovered), zap.Stack("stack"))
			result = Result{
				RunId:       runId,
				Code:        CodeFailure,
				Message:     fmt.Sprintf("Internal error while scheduling laboratories: %v", recovered),
				Assignments: []export.Row{},
			}
		}
		planner.metrics.ObserveRun(result.Code, result.Strategy, len(result.Schedule.Assignments), len(result.Schedule.Unassigned))
		logger.Info("run finished", zap.Int("code", result.Code), zap.Duration("elapsed", time.Since(started)))
	}()

	fail := func(stage string, err error) Result {
		logger.Error("run failed", zap.String("stage", stage), zap.Error(err))
		return Result{
			RunId:       runId,
			Code:        CodeFailure,
			Message:     fmt.Sprintf("Error %v: %v", stage, err),
			Assignments: []export.Row{},
		}
	}

	cfg := planner.cfg
	options := cfg.Options()
	logger.Info("run started",
		zap.String("strategy", cfg.Scheduler.Strategy),
		zap.String("student_conflicts", cfg.Scheduler.StudentConflicts),
	)
	report(progressConfigured)

	//** Load
	var input model.ModelInput
	if err := planner.phase(logger, "load", func() (err error) {
		input, err = tabular.Load(request.Sources, tabular.Options{Delimiter: cfg.Delimiter()})
		return err
	}); err != nil {
		return fail("loading data", err)
	}
	report(progressLoaded)

	//** Partition and slots
	var groups []model.Group
	var slots []model.TimeSlot
	if err := planner.phase(logger, "partition", func() error {
		partition, err := model.Partition(input.Students, cfg.Groups.MaxSize, cfg.Groups.Balance)
		if err != nil {
			return err
		}
		groups = model.Flatten(partition)

		slots, err = model.GenerateSlots(cfg.Schedule.DayStart, cfg.Schedule.DayEnd, cfg.Schedule.SlotDuration)
		return err
	}); err != nil {
		return fail("preparing groups", err)
	}
	logger.Debug("groups ready", zap.Int("groups", len(groups)), zap.Int("slots", len(slots)))
	report(progressPartitioned)

	//** Optimize
	var schedule model.Schedule
	if err := planner.phase(logger, "optimize", func() (err error) {
		schedule, err = planner.timetabler(options).Build(ctx, input, groups, slots, func(percent int) {
			report(progressPartitioned + percent*(progressOptimized-progressPartitioned)/100)
		})
		return err
	}); err != nil {
		return fail("assigning schedules", err)
	}
	for _, violation := range model.Verify(schedule, input) {
		logger.Error("schedule violation", zap.String("kind", string(violation.Kind)), zap.String("detail", violation.Message))
	}
	for _, unassigned := range schedule.Unassigned {
		logger.Warn("group left unassigned",
			zap.String("group", unassigned.Group.Id),
			zap.Int("students", unassigned.Group.Size()),
			zap.String("reason", string(unassigned.Reason)),
		)
	}
	report(progressOptimized)

	//** Export
	stats, err := model.Summarize(schedule, input, groups, slots, options)
	if err != nil {
		return fail("summarizing schedules", err)
	}
	outputPath := request.OutputPath
	if outputPath == "" {
		outputPath = cfg.Output.Path
	}
	if err := planner.phase(logger, "export", func() (err error) {
		outputPath, err = export.Write(outputPath, schedule, stats)
		return err
	}); err != nil {
		return fail("exporting schedules", err)
	}
	report(progressDone)

	return Result{
		RunId:       runId,
		Code:        CodeSuccess,
		Message:     summary(stats, outputPath),
		Strategy:    schedule.Strategy,
		Assignments: export.Rows(schedule),
		Stats:       &stats,
		OutputPath:  outputPath,
		Schedule:    schedule,
	}
}

func (planner *Planner) timetabler(options model.Options) model.Timetabler {
	if planner.cfg.Scheduler.Strategy == model.StrategySat {
		return model.NewSatTimetabler(planner.solver, options)
	}
	return model.NewGreedyTimetabler(options)
}

// Runs one phase of the pipeline, recording its duration
func (planner *Planner) phase(logger *zap.Logger, name string, run func() error) error {
	started := time.Now()
	err := run()
	elapsed := time.Since(started)

	planner.metrics.ObservePhase(name, elapsed)
	logger.Debug("phase finished", zap.String("phase", name), zap.Duration("elapsed", elapsed), zap.Bool("ok", err == nil))
	return err
}

// Wraps the callback so it only sees strictly increasing values
func monotonic(progress model.Progress) func(percent int) {
	last := -1
	return func(percent int) {
		if progress == nil || percent <= last {
			return
		}
		last = percent
		progress(percent)
	}
}

func summary(stats model.Stats, outputPath string) string {
	var builder strings.Builder
	builder.WriteString("Laboratory scheduling completed\n")
	fmt.Fprintf(&builder, "Total groups generated: %d\n", stats.TotalGroups)
	fmt.Fprintf(&builder, "Groups with an assigned slot: %d\n", stats.AssignedGroups)
	fmt.Fprintf(&builder, "Success rate: %.1f%%\n", stats.SuccessRate())
	fmt.Fprintf(&builder, "Output file: %v\n", outputPath)
	if unassigned := stats.TotalGroups - stats.AssignedGroups; unassigned > 0 {
		fmt.Fprintf(&builder, "%d groups left unassigned\n", unassigned)
	}
	return builder.String()
}
