package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/limaJavier/labscheduling/internal/config"
	"github.com/limaJavier/labscheduling/internal/logger"
	"github.com/limaJavier/labscheduling/internal/metrics"
	"github.com/limaJavier/labscheduling/pkg/planner"
	"github.com/limaJavier/labscheduling/pkg/tabular"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const maxUploadSize = 32 << 20

var uploadExtensions = []string{".csv", ".txt", ".xlsx", ".xlsm"}

type handler struct {
	cfg     *config.Config
	logger  *zap.Logger
	planner *planner.Planner
}

// New builds the HTTP router
//
//	POST /schedule  multipart upload of the four sources (and optional restrictions), answers the run result
//	GET  /health
//	GET  /metrics   prometheus exposition
func New(cfg *config.Config, l *zap.Logger, m *metrics.Metrics) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := &handler{
		cfg:     cfg,
		logger:  l,
		planner: planner.New(cfg, l, m),
	}

	r := gin.New()
	r.MaxMultipartMemory = maxUploadSize
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(l))
	r.Use(observe(m))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.POST("/schedule", handler.schedule)

	return r
}

func observe(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// Runs the planner over the uploaded sources. With ?download=true a successful run answers the exported file instead of the JSON result
func (handler *handler) schedule(c *gin.Context) {
	dir, err := os.MkdirTemp("", "labsched-*")
	if err != nil {
		handler.logger.Error("cannot create upload directory", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot store uploads"})
		return
	}
	defer os.RemoveAll(dir)

	sources := tabular.Sources{}
	fields := []struct {
		name     string
		target   *string
		required bool
	}{
		{tabular.SourceStudents, &sources.Students, true},
		{tabular.SourceCompatibilities, &sources.Compatibilities, true},
		{tabular.SourceLaboratories, &sources.Laboratories, true},
		{tabular.SourceProfessors, &sources.Professors, true},
		{tabular.SourceRestrictions, &sources.Restrictions, false},
	}
	for _, field := range fields {
		path, err := handler.save(c, dir, field.name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if path == "" && field.required {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("missing file %q", field.name)})
			return
		}
		*field.target = path
	}

	outputPath := filepath.Join(dir, filepath.Base(handler.cfg.Output.Path))
	result := handler.planner.Run(c.Request.Context(), planner.Request{Sources: sources, OutputPath: outputPath}, nil)
	c.Set("run_id", result.RunId)

	if result.Code != planner.CodeSuccess {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	if c.Query("download") == "true" {
		c.FileAttachment(result.OutputPath, filepath.Base(result.OutputPath))
		return
	}
	result.OutputPath = "" // Removed with the upload directory
	c.JSON(http.StatusOK, result)
}

// Stores the uploaded file of the form field under dir keeping its extension; an absent field yields an empty path
func (handler *handler) save(c *gin.Context, dir, field string) (string, error) {
	header, err := c.FormFile(field)
	if err == http.ErrMissingFile {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("cannot read file %q: %w", field, err)
	}

	extension := strings.ToLower(filepath.Ext(header.Filename))
	if !lo.Contains(uploadExtensions, extension) {
		return "", fmt.Errorf("unsupported file type %q for %q", extension, field)
	}

	path := filepath.Join(dir, field+extension)
	if err := c.SaveUploadedFile(header, path); err != nil {
		return "", fmt.Errorf("cannot store file %q: %w", field, err)
	}
	return path, nil
}
