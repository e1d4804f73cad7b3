package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sheetc/autosave"
	"sheetc/common"
	"sheetc/content"
	"sheetc/convert"
	"sheetc/layout"
	"sheetc/preview"
	"sheetc/session"
	"sheetc/sheet"
	"sheetc/state"
)

// openSource loads the document named by the first argument into an editing
// session. Closer must be called when session is no longer needed.
func openSource(ctx context.Context, cmd *cli.Command, log *zap.Logger) (*session.Session, func() error, error) {
	env := state.EnvFromContext(ctx)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return nil, nil, errors.New("no input source has been specified")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	from, err := common.ParseSourceFmt(cmd.String("from"))
	if err != nil {
		log.Warn("Unknown source format requested, detecting", zap.Error(err))
		from = common.SourceFmtAuto
	}

	c, err := content.Prepare(ctx, src, from, common.OutputFmtXhtml, log)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load source (%s): %w", src, err)
	}
	sess, closer, err := convert.NewSession(ctx, env.Cfg, c.Doc, c.Settings, log)
	if err != nil {
		return nil, nil, err
	}
	if err := sess.Commit(ctx); err != nil {
		return nil, nil, multierr.Append(err, closer.Close())
	}
	return sess, closer.Close, nil
}

func outputLayout(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	log := env.Logger("layout")

	sess, closeSession, err := openSource(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closeSession())
	}()

	surface, _ := sess.Surface().(*layout.MeasuredSurface)
	_, err = fmt.Fprint(os.Stdout, layout.Dump(sess.Pages(), surface))
	return err
}

func runPreview(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	log := env.Logger("preview")

	sess, closeSession, err := openSource(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closeSession())
	}()

	listen := cmd.String("listen")
	if len(listen) == 0 {
		listen = env.Cfg.Preview.Listen
	}
	renderer := convert.NewRenderer(env.Cfg, sess.Settings(), log)
	return preview.New(sess, renderer, log).Run(ctx, listen)
}

func recoverSnapshot(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	log := env.Logger("recover")

	as := env.Cfg.History.Autosave
	key := cmd.String("key")
	if len(key) == 0 {
		key = as.Key
	}
	if _, err := os.Stat(as.Destination); err != nil {
		return fmt.Errorf("autosave database is not available: %w", err)
	}

	store, err := autosave.Open(as.Destination, key, 0, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, store.Close())
	}()

	if cmd.Bool("list") {
		records, err := store.List(ctx)
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Fprintf(os.Stdout, "%d\t%s\t%s\t%s\n", r.Seq, r.SavedAt.Format(time.DateTime), r.Reason, r.BlockID)
		}
		return nil
	}

	rec, err := store.Latest(ctx)
	if err != nil {
		return err
	}
	doc, settings, err := sheet.Decode(bytes.NewReader(rec.Snapshot))
	if err != nil {
		return fmt.Errorf("autosaved snapshot is damaged: %w", err)
	}

	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		dst = key + "-recovered" + common.OutputFmtJson.Ext()
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if _, err := os.Stat(dst); err == nil && !cmd.Bool("overwrite") {
		return fmt.Errorf("output file already exists: %s", dst)
	}
	if err := sheet.WriteFile(dst, doc, settings); err != nil {
		return err
	}
	log.Info("Snapshot recovered", zap.Int64("seq", rec.Seq), zap.Time("saved", rec.SavedAt), zap.String("to", dst))
	return nil
}
