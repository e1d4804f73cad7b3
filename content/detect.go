package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"

	"sheetc/common"
)

const sniffLen = 512

// HasSourceExt reports whether file name has extension of known source
// format. It is used to select files when walking directories.
func HasSourceExt(name string) bool {
	_, ok := formatByExt(name)
	return ok
}

func formatByExt(name string) (common.SourceFmt, bool) {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, common.OutputFmtBundle.Ext()) {
		return common.SourceFmtBundle, true
	}
	switch filepath.Ext(lower) {
	case ".json":
		return common.SourceFmtJson, true
	case ".html", ".htm", ".xhtml":
		return common.SourceFmtHtml, true
	case ".txt", ".md":
		return common.SourceFmtMarkup, true
	}
	return common.SourceFmtAuto, false
}

// Detect determines source format of the file. Zip archives are always
// project bundles, otherwise known extension wins and content is sniffed
// last.
func Detect(path string) (common.SourceFmt, error) {
	f, err := os.Open(path)
	if err != nil {
		return common.SourceFmtAuto, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return common.SourceFmtAuto, fmt.Errorf("unable to read source: %w", err)
	}
	return detect(path, head[:n]), nil
}

func detect(name string, head []byte) common.SourceFmt {
	if filetype.IsType(head, matchers.TypeZip) {
		return common.SourceFmtBundle
	}
	if format, ok := formatByExt(name); ok && format != common.SourceFmtBundle {
		return format
	}

	head = bytes.TrimPrefix(head, []byte("\xEF\xBB\xBF"))
	head = bytes.TrimLeft(head, " \t\r\n")
	switch {
	case len(head) == 0:
		return common.SourceFmtMarkup
	case head[0] == '{' || jsonArray(head):
		return common.SourceFmtJson
	case head[0] == '<':
		return common.SourceFmtHtml
	}
	return common.SourceFmtMarkup
}

// jsonArray tells JSON block array from markup starting with a token.
func jsonArray(head []byte) bool {
	if head[0] != '[' {
		return false
	}
	rest := bytes.TrimLeft(head[1:], " \t\r\n")
	return len(rest) > 0 && (rest[0] == '{' || rest[0] == ']')
}
