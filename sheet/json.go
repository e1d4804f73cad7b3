package sheet

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// File is persisted form of a project: document fields with parallel
// settings object.
type File struct {
	Meta     Meta             `json:"meta"`
	Blocks   []*Block         `json:"blocks"`
	TOC      *TableOfContents `json:"toc,omitempty"`
	Settings *Settings        `json:"settings,omitempty"`
}

// Decode reads document and optional settings from JSON. Missing block ids
// are generated, zoom defaults to 1.
func Decode(r io.Reader) (*Document, *Settings, error) {
	var f File
	dec := json.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return nil, nil, err
	}
	if f.Blocks == nil {
		return nil, nil, fmt.Errorf("document has no blocks array")
	}
	doc := &Document{Meta: f.Meta, Blocks: f.Blocks, TOC: f.TOC}
	for i, b := range doc.Blocks {
		if b == nil {
			return nil, nil, fmt.Errorf("block %d is null", i)
		}
	}
	if doc.Meta.Zoom == 0 {
		doc.Meta.Zoom = 1
	}
	doc.EnsureIDs()
	if err := doc.Validate(); err != nil {
		return nil, nil, err
	}
	return doc, f.Settings, nil
}

// Encode writes document and settings as indented JSON.
func Encode(w io.Writer, doc *Document, settings *Settings) error {
	f := File{Meta: doc.Meta, Blocks: doc.Blocks, TOC: doc.TOC, Settings: settings}
	if f.Blocks == nil {
		f.Blocks = []*Block{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(&f)
}

// ReadFile loads document from JSON file.
func ReadFile(path string) (*Document, *Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open document: %w", err)
	}
	defer f.Close()

	doc, settings, err := Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read document %q: %w", path, err)
	}
	return doc, settings, nil
}

// WriteFile saves document to JSON file.
func WriteFile(path string, doc *Document, settings *Settings) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create document: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err := Encode(f, doc, settings); err != nil {
		return fmt.Errorf("unable to write document %q: %w", path, err)
	}
	return nil
}
