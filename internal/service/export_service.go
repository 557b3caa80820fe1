package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/practicum-admin-api/pkg/export"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
)

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	MaxRows int
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// ExportService renders datasets into downloadable files.
type ExportService struct {
	renderers map[export.Format]export.Renderer
	cfg       ExportConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(cfg ExportConfig, logger *zap.Logger, csv, pdf export.Renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 5000
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	return &ExportService{
		renderers: map[export.Format]export.Renderer{export.FormatCSV: csv, export.FormatPDF: pdf},
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Render encodes data in the requested format. name seeds the download filename.
func (s *ExportService) Render(format export.Format, name string, data export.Dataset) (*ExportFile, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if len(data.Rows) > s.cfg.MaxRows {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("export of %d rows exceeds the limit of %d; narrow the filter", len(data.Rows), s.cfg.MaxRows))
	}
	payload, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}
	s.logger.Info("export rendered",
		zap.String("name", name),
		zap.String("format", string(format)),
		zap.Int("rows", len(data.Rows)),
		zap.Int("bytes", len(payload)),
	)
	return &ExportFile{
		Filename:    s.buildFilename(name, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        payload,
		Rows:        len(data.Rows),
	}, nil
}

func (s *ExportService) buildFilename(name, ext string) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", sanitizeFilename(name), timestamp, ext)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "export"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
