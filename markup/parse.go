package markup

import (
	"strings"

	"go.uber.org/zap"
)

// Options control single parse pass.
type Options struct {
	// Tracker receives concept blanks in document order. When nil a private
	// tracker is used and indices start at 1.
	Tracker *Tracker
	// RectBoxes rewrites labelled boxes into rectangular unlabelled ones,
	// concept blocks use only those.
	RectBoxes bool
	Log       *zap.Logger
}

type parser struct {
	tr   *Tracker
	rect bool
	log  *zap.Logger
}

// Parse converts block content markup into nodes. Parsing never fails,
// unrecognized or unterminated tokens are kept as literal text.
func Parse(content string, opts Options) Nodes {
	p := &parser{tr: opts.Tracker, rect: opts.RectBoxes, log: opts.Log}
	if p.tr == nil {
		p.tr = NewTracker()
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	return p.parse(content)
}

func (p *parser) parse(content string) Nodes {
	if content == "" {
		return nil
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	text, regions := SplitMath(content)
	if p.rect {
		if rewritten := rewriteBoxes(text, regions); rewritten != text {
			text, regions = rewritten, splitRegions(rewritten)
		}
	}
	l := &lexer{p: p, src: text, regions: regions}
	return l.run(0, len(text))
}

// rewriteBoxes turns "[블록박스...]" openers and closers located in non-math
// text into their rectangular counterparts.
func rewriteBoxes(text string, regions Regions) string {
	if !strings.Contains(text, kwBox) {
		return text
	}
	var b strings.Builder
	for _, r := range regions {
		seg := text[r.Start:r.End]
		if r.Math {
			b.WriteString(seg)
			continue
		}
		for {
			i := strings.Index(seg, "["+kwBox)
			j := strings.Index(seg, kwBoxClose)
			if i < 0 && j < 0 {
				b.WriteString(seg)
				break
			}
			if j >= 0 && (i < 0 || j < i) {
				b.WriteString(seg[:j])
				b.WriteString(kwRectBoxClose)
				seg = seg[j+len(kwBoxClose):]
				continue
			}
			b.WriteString(seg[:i])
			if _, _, n, ok := lexBoxOpen(seg[i:]); ok {
				b.WriteString("[" + kwRectBox + "]")
				seg = seg[i+n:]
				continue
			}
			b.WriteString(seg[i : i+1])
			seg = seg[i+1:]
		}
	}
	return b.String()
}

// Canonical returns content in canonical markup form: math collapsed to
// its dollar source, blanks to their bracket tokens, boxes in multi-line
// form and grid data normalized.
func Canonical(content string, rectBoxes bool) string {
	return Serialize(Parse(content, Options{RectBoxes: rectBoxes}))
}
