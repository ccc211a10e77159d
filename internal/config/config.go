package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/limaJavier/labscheduling/pkg/model"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	envPrefix = "LABSCHED"
)

type Config struct {
	Env       string          `mapstructure:"env" validate:"oneof=development production"`
	Log       LogConfig       `mapstructure:"log"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Weights   WeightsConfig   `mapstructure:"weights"`
	Groups    GroupsConfig    `mapstructure:"groups"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Server    ServerConfig    `mapstructure:"server"`
	Csv       CsvConfig       `mapstructure:"csv"`
	Output    OutputConfig    `mapstructure:"output"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// ScheduleConfig is the teaching day window, written as HH:MM
type ScheduleConfig struct {
	DayStart     string `mapstructure:"day_start" validate:"required"`
	DayEnd       string `mapstructure:"day_end" validate:"required"`
	SlotDuration string `mapstructure:"slot_duration" validate:"required"`
}

type WeightsConfig struct {
	Pairs         int64 `mapstructure:"pairs" validate:"gte=0"`
	Conflicts     int64 `mapstructure:"conflicts" validate:"gte=0"`
	Professor     int64 `mapstructure:"professor" validate:"gte=0"`
	Capacity      int64 `mapstructure:"capacity" validate:"gte=0"`
	Compatibility int64 `mapstructure:"compatibility" validate:"gte=0"`
}

type GroupsConfig struct {
	MaxSize int  `mapstructure:"max_size"` // Checked by the partitioner
	Balance bool `mapstructure:"balance"`
}

type SchedulerConfig struct {
	Strategy              string `mapstructure:"strategy" validate:"oneof=greedy sat"`
	StudentConflicts      string `mapstructure:"student_conflicts" validate:"oneof=hard soft"`
	ProfessorAvailability bool   `mapstructure:"professor_availability"`
	IndexedObjective      bool   `mapstructure:"indexed_objective"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

type CsvConfig struct {
	Delimiter string `mapstructure:"delimiter" validate:"len=1"`
}

type OutputConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// Load reads the configuration from defaults, the optional file at path (yaml, json, toml or the legacy xml layout)
// and LABSCHED_ environment variables, in increasing precedence. A .env file in the working directory is loaded first
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if strings.EqualFold(filepath.Ext(path), ".xml") {
			legacy, err := readLegacy(path)
			if err != nil {
				return nil, err
			}
			if err := v.MergeConfigMap(legacy); err != nil {
				return nil, fmt.Errorf("cannot merge legacy configuration: %w", err)
			}
		} else {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("cannot read configuration file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg, func(decoderConfig *mapstructure.DecoderConfig) {
		decoderConfig.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("schedule.day_start", "08:00")
	v.SetDefault("schedule.day_end", "20:00")
	v.SetDefault("schedule.slot_duration", "02:00")

	weights := model.DefaultWeights()
	v.SetDefault("weights.pairs", weights.Pairs)
	v.SetDefault("weights.conflicts", weights.Conflicts)
	v.SetDefault("weights.professor", weights.Professor)
	v.SetDefault("weights.capacity", weights.Capacity)
	v.SetDefault("weights.compatibility", weights.Compatibility)

	v.SetDefault("groups.max_size", 24)
	v.SetDefault("groups.balance", true)

	v.SetDefault("scheduler.strategy", model.StrategyGreedy)
	v.SetDefault("scheduler.student_conflicts", string(model.HardConflicts))
	v.SetDefault("scheduler.professor_availability", true)
	v.SetDefault("scheduler.indexed_objective", true)

	v.SetDefault("server.port", 8080)
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("output.path", "horarios_laboratorios.xlsx")
}

func (cfg *Config) Validate() error {
	err := validator.New().Struct(cfg)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			messages = append(messages, fmt.Sprintf("%v=%v fails %q", fieldError.Namespace(), fieldError.Value(), fieldError.Tag()))
		}
		return fmt.Errorf("%w: %v", model.ErrInvalidConfiguration, strings.Join(messages, ", "))
	}
	return err
}

// Options returns the optimizer settings
func (cfg *Config) Options() model.Options {
	return model.Options{
		Weights: model.Weights{
			Pairs:         cfg.Weights.Pairs,
			Conflicts:     cfg.Weights.Conflicts,
			Professor:     cfg.Weights.Professor,
			Capacity:      cfg.Weights.Capacity,
			Compatibility: cfg.Weights.Compatibility,
		},
		StudentConflicts:      model.ConflictPolicy(cfg.Scheduler.StudentConflicts),
		ProfessorAvailability: cfg.Scheduler.ProfessorAvailability,
		IndexedObjective:      cfg.Scheduler.IndexedObjective,
	}
}

func (cfg *Config) Delimiter() rune {
	return []rune(cfg.Csv.Delimiter)[0]
}
