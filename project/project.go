// Package project stores document, settings and referenced images in a
// single zip bundle.
package project

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sheetc/common"
	"sheetc/markup"
	"sheetc/sheet"
)

// Bundle entry names.
const (
	DocumentEntry = "document.json"
	SettingsEntry = "settings.json"
	ImagesDir     = "images"
)

// Options control bundle save and load.
type Options struct {
	// BaseDir resolves relative image references on save.
	BaseDir string
	// MaxImageWidth downscales wider images on save, 0 keeps originals.
	MaxImageWidth int
	Log           *zap.Logger
}

func (o *Options) logger() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}
	return o.Log.Named("project")
}

// rewriteImages applies fn to every image reference of rich blocks.
func rewriteImages(doc *sheet.Document, fn func(src string) string) {
	for _, b := range doc.Blocks {
		if b.Type.Rich() {
			b.Content = markup.RewriteImages(b.Content, b.Type == common.BlockTypeConcept, fn)
		}
	}
}

// localPath returns file system path of image reference, false for remote
// references.
func localPath(src, base string) (string, bool) {
	if u, err := url.Parse(src); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		if u.Scheme != "file" {
			return "", false
		}
		return filepath.FromSlash(u.Path), true
	}
	if filepath.IsAbs(src) || base == "" {
		return filepath.Clean(src), true
	}
	return filepath.Join(base, src), true
}

type imageEntry struct {
	name string
	data []byte
}

type saver struct {
	opts   Options
	log    *zap.Logger
	byPath map[string]string
	images []imageEntry
	errs   error
}

// add stores referenced image and returns its bundle relative name. On
// failure reference is kept as is.
func (s *saver) add(src string) string {
	p, ok := localPath(src, s.opts.BaseDir)
	if !ok {
		return src
	}
	if name, ok := s.byPath[p]; ok {
		return name
	}
	data, err := os.ReadFile(p)
	if err != nil {
		s.errs = multierr.Append(s.errs, fmt.Errorf("unable to read image %q: %w", src, err))
		return src
	}
	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		s.log.Warn("Not an image, reference kept", zap.String("src", src))
		return src
	}
	data = s.downscale(src, kind.Extension, data)

	base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	name := path.Join(ImagesDir, fmt.Sprintf("%03d-%s.%s", len(s.images)+1, base, kind.Extension))
	s.byPath[p] = name
	s.images = append(s.images, imageEntry{name: name, data: data})
	s.log.Debug("Image added", zap.String("src", src), zap.String("entry", name), zap.Int("size", len(data)))
	return name
}

func (s *saver) downscale(src, ext string, data []byte) []byte {
	if s.opts.MaxImageWidth <= 0 {
		return data
	}
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return data
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= s.opts.MaxImageWidth {
		return data
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		s.log.Warn("Unable to decode image, kept as is", zap.String("src", src), zap.Error(err))
		return data
	}
	img = imaging.Resize(img, s.opts.MaxImageWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		s.log.Warn("Unable to encode image, kept as is", zap.String("src", src), zap.Error(err))
		return data
	}
	s.log.Debug("Image downscaled", zap.String("src", src), zap.Int("from", cfg.Width), zap.Int("to", s.opts.MaxImageWidth))
	return buf.Bytes()
}

// Save writes bundle. Local image references are copied into the bundle and
// rewritten to relative entry names, remote references are kept.
func Save(ctx context.Context, dst string, doc *sheet.Document, settings *sheet.Settings, opts Options) (err error) {
	s := &saver{opts: opts, log: opts.logger(), byPath: make(map[string]string)}

	doc = doc.Clone()
	rewriteImages(doc, s.add)
	if s.errs != nil {
		s.log.Warn("Some images were not bundled", zap.Error(s.errs))
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("unable to create bundle: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	arc := fixzip.NewWriter(f)
	defer func() {
		err = multierr.Append(err, arc.Close())
	}()

	now := time.Now()
	var buf bytes.Buffer
	if err := sheet.Encode(&buf, doc, nil); err != nil {
		return fmt.Errorf("unable to encode document: %w", err)
	}
	if err := saveEntry(arc, DocumentEntry, now, buf.Bytes()); err != nil {
		return err
	}
	if settings != nil {
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to encode settings: %w", err)
		}
		if err := saveEntry(arc, SettingsEntry, now, data); err != nil {
			return err
		}
	}
	for _, img := range s.images {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := saveEntry(arc, img.name, now, img.data); err != nil {
			return err
		}
	}
	s.log.Debug("Bundle saved", zap.String("file", dst), zap.Int("images", len(s.images)))
	return nil
}

func saveEntry(arc *fixzip.Writer, name string, t time.Time, data []byte) error {
	w, err := arc.CreateHeader(&fixzip.FileHeader{Name: name, Method: fixzip.Deflate, Modified: t})
	if err != nil {
		return fmt.Errorf("unable to create bundle entry %q: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("unable to write bundle entry %q: %w", name, err)
	}
	return nil
}

// FileURL returns file URL for local path.
func FileURL(p string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(p)}).String()
}

// Load reads bundle extracting images into dir. Image references pointing
// into the bundle are rewritten to absolute file URLs.
func Load(ctx context.Context, src, dir string, opts Options) (doc *sheet.Document, settings *sheet.Settings, err error) {
	log := opts.logger()

	arc, err := fixzip.OpenReader(src)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open bundle: %w", err)
	}
	defer func() {
		err = multierr.Append(err, arc.Close())
	}()

	if dir, err = filepath.Abs(dir); err != nil {
		return nil, nil, err
	}

	extracted := make(map[string]string)
	for _, f := range arc.File {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		switch {
		case f.Name == DocumentEntry:
			data, err := readEntry(f)
			if err != nil {
				return nil, nil, err
			}
			if doc, _, err = sheet.Decode(bytes.NewReader(data)); err != nil {
				return nil, nil, fmt.Errorf("unable to decode document: %w", err)
			}
		case f.Name == SettingsEntry:
			data, err := readEntry(f)
			if err != nil {
				return nil, nil, err
			}
			settings = &sheet.Settings{}
			if err := json.Unmarshal(data, settings); err != nil {
				return nil, nil, fmt.Errorf("unable to decode settings: %w", err)
			}
		case strings.HasPrefix(f.Name, ImagesDir+"/") && !strings.HasSuffix(f.Name, "/"):
			name := path.Clean(f.Name)
			if !strings.HasPrefix(name, ImagesDir+"/") {
				log.Warn("Skipping suspicious bundle entry", zap.String("entry", f.Name))
				continue
			}
			data, err := readEntry(f)
			if err != nil {
				return nil, nil, err
			}
			target := filepath.Join(dir, filepath.FromSlash(name))
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return nil, nil, fmt.Errorf("unable to create image directory: %w", err)
			}
			if err := os.WriteFile(target, data, 0644); err != nil {
				return nil, nil, fmt.Errorf("unable to extract image: %w", err)
			}
			extracted[name] = FileURL(target)
		default:
			log.Debug("Ignoring bundle entry", zap.String("entry", f.Name))
		}
	}
	if doc == nil {
		return nil, nil, fmt.Errorf("bundle has no %s", DocumentEntry)
	}

	rewriteImages(doc, func(src string) string {
		if u, ok := extracted[path.Clean(src)]; ok {
			return u
		}
		return src
	})
	log.Debug("Bundle loaded", zap.String("file", src), zap.Int("blocks", len(doc.Blocks)), zap.Int("images", len(extracted)))
	return doc, settings, nil
}

func readEntry(f *fixzip.File) ([]byte, error) {
	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("unable to open bundle entry %q: %w", f.Name, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read bundle entry %q: %w", f.Name, err)
	}
	return data, nil
}
