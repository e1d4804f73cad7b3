package importer

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"sheetc/common"
	"sheetc/markup"
	"sheetc/sheet"
)

// Document meta tokens.
const (
	metaTitle    = "[[머릿말_과정]]"
	metaSubtitle = "[[머릿말_단원]]"
	metaFooter   = "[[꼬릿말:"
)

// normalizeText converts line endings and applies NFC so that tokens
// typed with decomposed Hangul are recognized.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return norm.NFC.String(text)
}

// ImportText converts text in block header dialect
// "[[style[,style]_label]] : body" into a document. Import never fails,
// malformed headers and tokens are kept as literal text.
func ImportText(text string, opts Options) *sheet.Document {
	log := opts.logger()

	text, meta := extractMeta(normalizeText(text))
	doc := &sheet.Document{Meta: meta}
	doc.Meta.Zoom = 1

	lead, chunks := splitChunks(text)
	if lead = strings.TrimSpace(lead); lead != "" {
		doc.Blocks = append(doc.Blocks, buildBlock(header{styles: []string{styleBasic}}, lead, log))
	}
	for _, ch := range chunks {
		h := parseHeader(ch.header)
		doc.Blocks = append(doc.Blocks, buildBlock(h, ch.body, log))
	}
	if len(doc.Blocks) == 0 {
		doc.Blocks = append(doc.Blocks, sheet.NewBlock(common.BlockTypeExample, ""))
	}
	doc.Blocks = opts.chunk(doc.Blocks)
	doc.TOC = doc.BuildTOC()

	log.Debug("Text imported", zap.Int("blocks", len(doc.Blocks)), zap.String("title", doc.Meta.Title))
	return doc
}

// extractMeta strips document header and footer tokens. Header values run to
// the end of line or next block header, a header token alone on its line
// takes value from the following line.
func extractMeta(text string) (string, sheet.Meta) {
	var meta sheet.Meta
	for _, tok := range []struct {
		token string
		value *string
	}{
		{metaTitle, &meta.Title},
		{metaSubtitle, &meta.Subtitle},
	} {
		for {
			idx := strings.Index(text, tok.token)
			if idx < 0 {
				break
			}
			var value string
			value, text = cutMetaValue(text, idx, idx+len(tok.token))
			if value != "" {
				*tok.value = value
			}
		}
	}
	for {
		idx := strings.Index(text, metaFooter)
		if idx < 0 {
			break
		}
		end := strings.Index(text[idx:], "]]")
		if end < 0 {
			break
		}
		meta.FooterText = strings.TrimSpace(text[idx+len(metaFooter) : idx+end])
		text = text[:idx] + text[idx+end+2:]
	}
	return text, meta
}

func cutMetaValue(text string, start, valueStart int) (string, string) {
	rest := text[valueStart:]
	end := len(rest)
	if k := strings.IndexByte(rest, '\n'); k >= 0 {
		end = k
	}
	if k := strings.Index(rest[:end], "[["); k >= 0 {
		end = k
	}
	value := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest[:end]), ":"))
	value = strings.TrimSpace(value)
	consumed := end
	if value == "" && end < len(rest) && rest[end] == '\n' {
		next := rest[end+1:]
		lineEnd := len(next)
		if k := strings.IndexByte(next, '\n'); k >= 0 {
			lineEnd = k
		}
		if candidate := strings.TrimSpace(next[:lineEnd]); candidate != "" && !strings.HasPrefix(candidate, "[[") {
			value = candidate
			consumed = end + 1 + lineEnd
		}
	}
	if consumed < len(rest) && rest[consumed] == '\n' {
		consumed++
	}
	return value, text[:start] + rest[consumed:]
}

type chunk struct {
	header string
	body   string
}

// splitChunks splits text on "[[" found outside of math. Chunk without
// closing "]]" is appended to the previous body as literal text.
func splitChunks(text string) (string, []chunk) {
	text, regions := markup.SplitMath(text)
	var starts []int
	for from := 0; ; {
		k := strings.Index(text[from:], "[[")
		if k < 0 {
			break
		}
		pos := from + k
		if regions.NonMath(pos, pos+2) {
			starts = append(starts, pos)
			from = pos + 2
			continue
		}
		from = pos + 1
	}

	if len(starts) == 0 {
		return text, nil
	}
	lead := text[:starts[0]]
	var chunks []chunk
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		seg := text[start+2 : end]
		hdrEnd := strings.Index(seg, "]]")
		if hdrEnd < 0 || strings.Contains(seg[:hdrEnd], "\n") {
			if len(chunks) == 0 {
				lead += "[[" + seg
			} else {
				chunks[len(chunks)-1].body += "[[" + seg
			}
			continue
		}
		chunks = append(chunks, chunk{header: seg[:hdrEnd], body: seg[hdrEnd+2:]})
	}
	for i := range chunks {
		body := strings.TrimLeft(chunks[i].body, " \t")
		body = strings.TrimPrefix(body, ":")
		chunks[i].body = strings.TrimSpace(body)
	}
	return lead, chunks
}

func buildBlock(h header, body string, log *zap.Logger) *sheet.Block {
	typ := h.blockType()
	b := sheet.NewBlock(typ, "")
	switch typ {
	case common.BlockTypeBreak:
		if body != "" {
			log.Debug("Dropping text after break header", zap.String("text", body))
		}
		return b
	case common.BlockTypeSpacer:
		b.Height = DefaultSpacerHeight
		if v, err := strconv.ParseFloat(h.label, 64); err == nil && v > 0 {
			b.Height = v
		}
		return b
	}

	b.Label = h.label
	b.Bordered = h.has(styleBordered)
	b.BgGray = h.has(styleBgGray)
	b.Variant = h.variant()
	if a := h.align(); a != "" {
		b.Style = &sheet.Style{TextAlign: a}
	}
	nodes := markup.Parse(body, markup.Options{RectBoxes: typ == common.BlockTypeConcept, Log: log})
	b.Content = markup.Serialize(nodes)
	return b
}
