package content

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"sheetc/common"
	"sheetc/config"
	"sheetc/importer"
	"sheetc/misc"
	"sheetc/project"
	"sheetc/sheet"
	"sheetc/state"
)

// Content encapsulates document and settings loaded from a conversion source
// of any supported format.
type Content struct {
	SrcName      string
	SrcFormat    common.SourceFmt
	OutputFormat common.OutputFmt

	Doc      *sheet.Document
	Settings *sheet.Settings

	// Bundle images are extracted here.
	WorkDir string
}

// SettingsFromConfig returns document settings matching configured defaults.
func SettingsFromConfig(cfg *config.Config) *sheet.Settings {
	return &sheet.Settings{
		FontSizePt:       cfg.Layout.Measure.FontSizePt,
		LineHeight:       cfg.Layout.Measure.LineHeight,
		ColumnBlockLimit: cfg.Document.ColumnBlockLimit,
		ChunkMode:        cfg.Document.ChunkMode,
		SpacerHeight:     cfg.Document.SpacerHeight,
		Locale:           cfg.Document.Locale,
	}
}

// mergeSettings fills settings fields absent in loaded ones from defaults.
func mergeSettings(loaded, defaults *sheet.Settings) *sheet.Settings {
	if loaded == nil {
		return defaults
	}
	s := loaded.Clone()
	if s.FontSizePt <= 0 {
		s.FontSizePt = defaults.FontSizePt
	}
	if s.LineHeight <= 0 {
		s.LineHeight = defaults.LineHeight
	}
	if s.SpacerHeight <= 0 {
		s.SpacerHeight = defaults.SpacerHeight
	}
	if s.Locale == "" {
		s.Locale = defaults.Locale
	}
	return s
}

// Prepare reads and imports document from src. When from is auto source
// format is detected.
func Prepare(ctx context.Context, src string, from common.SourceFmt, outputFormat common.OutputFmt, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	if from == common.SourceFmtAuto {
		detected, err := Detect(src)
		if err != nil {
			return nil, fmt.Errorf("unable to detect source format: %w", err)
		}
		log.Debug("Source format detected", zap.String("file", src), zap.Stringer("format", detected))
		from = detected
	}

	tmpDir, err := os.MkdirTemp("", misc.GetAppName()+"-")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary directory: %w", err)
	}
	baseSrcName := filepath.Base(src)
	env.Rpt.Store(fmt.Sprintf("%s-%s", misc.GetAppName(), baseSrcName), tmpDir)

	defaults := SettingsFromConfig(env.Cfg)
	opts := importer.OptionsFromSettings(defaults, log)

	var (
		doc      *sheet.Document
		settings *sheet.Settings
	)
	switch from {
	case common.SourceFmtBundle:
		doc, settings, err = project.Load(ctx, src, filepath.Join(tmpDir, project.ImagesDir), project.Options{
			MaxImageWidth: env.Cfg.Document.MaxImageWidth,
			Log:           log,
		})
		if err != nil {
			return nil, err
		}
	case common.SourceFmtJson:
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, err
		}
		if doc, settings, err = importer.ImportJSON(data, opts); err != nil {
			return nil, err
		}
	case common.SourceFmtHtml:
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, err
		}
		if doc, err = importer.ImportHTML(decodeText(data, "text/html", log), opts); err != nil {
			return nil, err
		}
	case common.SourceFmtMarkup:
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, err
		}
		doc = importer.ImportText(string(decodeText(data, "text/plain", log)), opts)
	default:
		return nil, fmt.Errorf("unsupported source format %s", from)
	}

	doc.EnsureIDs()
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("imported document is invalid: %w", err)
	}

	c := &Content{
		SrcName:      src,
		SrcFormat:    from,
		OutputFormat: outputFormat,
		Doc:          doc,
		Settings:     mergeSettings(settings, defaults),
		WorkDir:      tmpDir,
	}

	// Save prepared document for debugging
	if env.Rpt != nil {
		if err := sheet.WriteFile(filepath.Join(tmpDir, baseSrcName+"_prepared.json"), c.Doc, c.Settings); err != nil {
			return nil, fmt.Errorf("unable to write prepared doc for debugging: %w", err)
		}
		if err := os.WriteFile(filepath.Join(tmpDir, baseSrcName+"_prepared"), []byte(c.String()), 0644); err != nil {
			return nil, fmt.Errorf("unable to write prepared doc for debugging: %w", err)
		}
	}
	return c, nil
}

// decodeText converts text in legacy encodings to UTF-8 dropping byte order
// mark. Undecodable input is returned unchanged.
func decodeText(data []byte, contentType string, log *zap.Logger) []byte {
	enc, name, _ := charset.DetermineEncoding(data, contentType)
	if name != "utf-8" {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			log.Warn("Unable to decode source, using as is", zap.String("charset", name), zap.Error(err))
			return data
		}
		log.Debug("Source decoded", zap.String("charset", name))
		data = decoded
	}
	return bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))
}
