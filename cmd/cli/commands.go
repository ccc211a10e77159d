package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/limaJavier/labscheduling/internal/config"
	"github.com/limaJavier/labscheduling/internal/logger"
	"github.com/limaJavier/labscheduling/internal/metrics"
	"github.com/limaJavier/labscheduling/internal/server"
	"github.com/limaJavier/labscheduling/pkg/model"
	"github.com/limaJavier/labscheduling/pkg/planner"
	"github.com/limaJavier/labscheduling/pkg/tabular"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exitError carries a non-zero run code out of a command; its message has already been printed
type exitError struct {
	code int
}

func (err exitError) Error() string {
	return fmt.Sprintf("exit code %d", err.code)
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "labsched",
		Short:         "Laboratory group scheduler",
		Long:          "Partitions enrolled students into laboratory groups and assigns every group a laboratory and a weekly time slot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (yaml, json, toml or legacy xml)")

	root.AddCommand(
		newScheduleCommand(&configPath),
		newGroupsCommand(&configPath),
		newSlotsCommand(&configPath),
		newServeCommand(&configPath),
	)
	return root
}

func newScheduleCommand(configPath *string) *cobra.Command {
	var request planner.Request
	var strategy string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "build and export the laboratory schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if strategy != "" {
				cfg.Scheduler.Strategy = strategy
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			l, err := logger.New(cfg)
			if err != nil {
				return err
			}
			defer l.Sync()

			var progress model.Progress
			if !quiet {
				progress = func(percent int) { fmt.Fprintf(cmd.ErrOrStderr(), "progress: %d%%\n", percent) }
			}

			result := planner.New(cfg, l, metrics.New()).Run(cmd.Context(), request, progress)
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(result.Message))
			if result.Code != planner.CodeSuccess {
				return exitError{code: result.Code}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&request.Sources.Students, "students", "", "student roster (.csv or .xlsx)")
	flags.StringVar(&request.Sources.Compatibilities, "compatibilities", "", "subject to laboratory compatibility (.csv or .xlsx)")
	flags.StringVar(&request.Sources.Laboratories, "laboratories", "", "laboratory registry (.csv or .xlsx)")
	flags.StringVar(&request.Sources.Professors, "professors", "", "professor availability (.csv or .xlsx)")
	flags.StringVar(&request.Sources.Restrictions, "restrictions", "", "additional restrictions (optional)")
	flags.StringVarP(&request.OutputPath, "out", "o", "", "output file (.xlsx, .csv or .json), overrides output.path")
	flags.StringVar(&strategy, "strategy", "", "scheduling strategy (greedy or sat), overrides scheduler.strategy")
	flags.BoolVarP(&quiet, "quiet", "q", false, "do not report progress")
	for _, name := range []string{"students", "compatibilities", "laboratories", "professors"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newGroupsCommand(configPath *string) *cobra.Command {
	var students string

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "show the groups the roster is partitioned into",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			roster, err := tabular.LoadStudents(students, tabular.Options{Delimiter: cfg.Delimiter()})
			if err != nil {
				return err
			}
			partition, err := model.Partition(roster, cfg.Groups.MaxSize, cfg.Groups.Balance)
			if err != nil {
				return err
			}
			return printGroups(cmd.OutOrStdout(), partition)
		},
	}
	cmd.Flags().StringVar(&students, "students", "", "student roster (.csv or .xlsx)")
	_ = cmd.MarkFlagRequired("students")
	return cmd
}

func newSlotsCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "show the candidate time slots of the configured day window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			slots, err := model.GenerateSlots(cfg.Schedule.DayStart, cfg.Schedule.DayEnd, cfg.Schedule.SlotDuration)
			if err != nil {
				return err
			}
			for _, slot := range slots {
				fmt.Fprintln(cmd.OutOrStdout(), slot)
			}
			return nil
		},
	}
}

func newServeCommand(configPath *string) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the scheduler over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			l, err := logger.New(cfg)
			if err != nil {
				return err
			}
			defer l.Sync()

			httpServer := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
				Handler: server.New(cfg, l, metrics.New()),
			}
			go func() {
				<-cmd.Context().Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = httpServer.Shutdown(shutdownCtx)
			}()

			l.Info("server starting", zap.String("addr", httpServer.Addr), zap.String("env", cfg.Env))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			l.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listening port, overrides server.port")
	return cmd
}

func printGroups(out io.Writer, partition []model.SubjectGroups) error {
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "GROUP\tSUBJECT\tSTUDENTS")
	for _, group := range model.Flatten(partition) {
		fmt.Fprintf(writer, "%v\t%v\t%d\n", group.Id, group.Subject, group.Size())
	}
	return writer.Flush()
}
