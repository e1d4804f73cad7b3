package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"sheetc/common"
	"sheetc/config"
	"sheetc/content"
	"sheetc/sheet"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Title      string
	Subtitle   string
	Footer     string
	Locale     string
	Format     string
	SourceFile string
	Blocks     int
	Labels     []string
}

func buildLabels(doc *sheet.Document) []string {
	result := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if b.Label == "" || b.Derived != "" {
			continue
		}
		result = append(result, b.Label)
	}
	return result
}

func expandTemplate(c *content.Content, name config.TemplateFieldName, field string, format common.OutputFmt) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Title:      c.Doc.Meta.Title,
		Subtitle:   c.Doc.Meta.Subtitle,
		Footer:     c.Doc.Meta.FooterText,
		Format:     format.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(c.SrcName), filepath.Ext(c.SrcName)),
		Blocks:     len(c.Doc.Blocks),
		Labels:     buildLabels(c.Doc),
	}
	if c.Settings != nil {
		values.Locale = c.Settings.Locale
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
