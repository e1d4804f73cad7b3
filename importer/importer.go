// Package importer converts pasted text in block header dialect, JSON
// block arrays and exported HTML into documents.
package importer

import (
	"errors"

	"go.uber.org/zap"

	"sheetc/common"
	"sheetc/sheet"
)

// ErrMalformedJSON is returned when JSON import input cannot be decoded.
var ErrMalformedJSON = errors.New("malformed JSON")

// Options control import.
type Options struct {
	// ColumnBlockLimit inserts separator after every N counting blocks when
	// positive.
	ColumnBlockLimit int
	ChunkMode        common.ChunkMode
	SpacerHeight     float64
	Log              *zap.Logger
}

// OptionsFromSettings builds import options from document settings.
func OptionsFromSettings(s *sheet.Settings, log *zap.Logger) Options {
	opts := Options{Log: log}
	if s != nil {
		opts.ColumnBlockLimit = s.ColumnBlockLimit
		opts.ChunkMode = s.ChunkMode
		opts.SpacerHeight = s.SpacerHeight
	}
	return opts
}

func (o *Options) logger() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}
	return o.Log.Named("import")
}

func (o *Options) chunk(blocks []*sheet.Block) []*sheet.Block {
	return Chunk(blocks, o.ColumnBlockLimit, o.ChunkMode, o.SpacerHeight)
}
