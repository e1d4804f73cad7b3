package convert

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"sheetc/autosave"
	"sheetc/config"
	"sheetc/layout"
	"sheetc/render"
	"sheetc/session"
	"sheetc/sheet"
	"sheetc/typeset"
)

// Template returns page template from configuration.
func Template(cfg *config.Config) layout.Template {
	return layout.Template{
		ColumnWidth:           cfg.Layout.Page.ColumnWidth,
		ColumnHeight:          cfg.Layout.Page.ColumnHeight,
		FirstPageColumnHeight: cfg.Layout.Page.FirstPageColumnHeight,
		BlockGap:              cfg.Layout.Page.BlockGap,
	}
}

// Metrics returns measurer metrics, document settings take precedence over
// configuration.
func Metrics(cfg *config.Config, settings *sheet.Settings) layout.Metrics {
	m := layout.Metrics{
		FontSizePt: cfg.Layout.Measure.FontSizePt,
		LineHeight: cfg.Layout.Measure.LineHeight,
		DPI:        cfg.Layout.Measure.DPI,
	}
	if settings != nil {
		if settings.FontSizePt > 0 {
			m.FontSizePt = settings.FontSizePt
		}
		if settings.LineHeight >= 1 {
			m.LineHeight = settings.LineHeight
		}
	}
	return m
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewSession creates editing session for doc configured from cfg. When
// autosave is enabled returned closer releases snapshot store, it must
// always be called.
func NewSession(ctx context.Context, cfg *config.Config, doc *sheet.Document, settings *sheet.Settings, log *zap.Logger) (*session.Session, io.Closer, error) {
	m, err := layout.LoadMeasurer(cfg.Layout.Measure.FontFile, Metrics(cfg, settings), log)
	if err != nil {
		return nil, nil, err
	}

	opts := session.Options{
		Template:       Template(cfg),
		Measurer:       m,
		MaxIterations:  cfg.Layout.RebalanceMaxIterations,
		RecordDelay:    cfg.History.RecordDelay,
		RebalanceDelay: cfg.Layout.RebalanceDelay,
		Depth:          cfg.History.Depth,
		Coalesce:       cfg.History.Coalesce,
		Log:            log,
	}

	var closer io.Closer = nopCloser{}
	if as := cfg.History.Autosave; as.Enable {
		store, err := autosave.Open(as.Destination, as.Key, as.Keep, log)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open autosave store: %w", err)
		}
		opts.Store, closer = store, store
	}

	sess, err := session.New(ctx, opts)
	if err == nil {
		err = sess.Load(ctx, doc, settings)
	}
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return sess, closer, nil
}

// NewRenderer creates renderer configured from cfg. Math is typeset only
// when enabled.
func NewRenderer(cfg *config.Config, settings *sheet.Settings, log *zap.Logger) *render.Renderer {
	opts := render.Options{
		Locale:   cfg.Document.Locale,
		FontFile: cfg.Layout.Measure.FontFile,
		Log:      log,
	}
	if settings != nil {
		if settings.Locale != "" {
			opts.Locale = settings.Locale
		}
		opts.FontFamily = settings.FontFamily
	}
	if cfg.Typeset.Enable {
		opts.Typeset = typeset.NewService(typeset.NewTreeblood(cfg.Typeset.Macros), cfg.Typeset.Timeout, cfg.Typeset.CacheSize, log)
	}
	return render.New(opts)
}
