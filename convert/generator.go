package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sheetc/common"
	"sheetc/content"
	"sheetc/layout"
	"sheetc/project"
	"sheetc/sheet"
	"sheetc/state"
)

// Generate runs prepared content through editing session, so content is
// canonical and derived blocks are in place, and writes the result in
// requested format.
func Generate(ctx context.Context, c *content.Content, outputPath string, log *zap.Logger) (err error) {
	env := state.EnvFromContext(ctx)

	sess, closer, err := NewSession(ctx, env.Cfg, c.Doc, c.Settings, log)
	if err != nil {
		return fmt.Errorf("unable to start session: %w", err)
	}
	defer func() {
		err = multierr.Append(err, closer.Close())
	}()
	if err := sess.Commit(ctx); err != nil {
		return err
	}
	doc, settings := sess.Document(), sess.Settings()

	switch c.OutputFormat {
	case common.OutputFmtJson:
		return sheet.WriteFile(outputPath, doc, settings)
	case common.OutputFmtMarkup:
		return os.WriteFile(outputPath, []byte(sess.Export()), 0644)
	case common.OutputFmtXhtml:
		return writeXhtml(ctx, sess.Pages(), doc, settings, outputPath, log)
	case common.OutputFmtBundle:
		return project.Save(ctx, outputPath, doc, settings, project.Options{
			BaseDir:       filepath.Dir(c.SrcName),
			MaxImageWidth: env.Cfg.Document.MaxImageWidth,
			Log:           log,
		})
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

func writeXhtml(ctx context.Context, l *layout.Layout, doc *sheet.Document, settings *sheet.Settings, outputPath string, log *zap.Logger) (err error) {
	env := state.EnvFromContext(ctx)

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return NewRenderer(env.Cfg, settings, log).Write(ctx, f, doc, l)
}
