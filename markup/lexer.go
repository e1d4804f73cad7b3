package markup

import (
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// lexer scans normalized text with known math regions. Token openers and
// closers are recognized only in non-math text, bodies are lexed
// recursively over the same source.
type lexer struct {
	p       *parser
	src     string
	regions Regions
	// inBox is set while box body is lexed, box openers there are text.
	inBox bool
}

type emitter struct {
	nodes Nodes
	buf   strings.Builder
}

func (e *emitter) flush() {
	if e.buf.Len() > 0 {
		e.nodes = append(e.nodes, &Text{Value: e.buf.String()})
		e.buf.Reset()
	}
}

func (e *emitter) push(n Node) {
	e.flush()
	e.nodes = append(e.nodes, n)
}

func (e *emitter) done() Nodes {
	e.flush()
	return e.nodes
}

func (l *lexer) run(start, end int) Nodes {
	var e emitter
	for i := start; i < end; {
		if r, ok := l.regions.MathAt(i); ok && r.End <= end {
			e.push(l.math(r))
			i = r.End
			continue
		}
		switch c := l.src[i]; c {
		case '\n':
			e.push(&LineBreak{})
			i++
			continue
		case '\\':
			if i+1 < end && l.src[i+1] == '$' {
				e.buf.WriteByte('$')
				i += 2
				continue
			}
			if i+1 < end && l.src[i+1] == '\\' {
				e.buf.WriteString(`\\`)
				i += 2
				continue
			}
		case '[':
			if n, next, ok := l.token(i, end); ok {
				e.push(n)
				i = next
				continue
			}
		}
		e.buf.WriteByte(l.src[i])
		i++
	}
	return e.done()
}

// token tries every matcher at position i which holds '['.
func (l *lexer) token(i, end int) (Node, int, bool) {
	s := l.src[i:end]
	if b, n, ok := lexBlank(s); ok && l.regions.NonMath(i, i+n) {
		return b, i + n, true
	}
	if n, next, ok := l.conceptBlank(i, end); ok {
		return n, next, true
	}
	if img, n, ok := lexImage(s); ok && l.regions.NonMath(i, i+n) {
		return img, i + n, true
	}
	if rows, cols, n, ok := lexTableHead(s); ok && l.regions.NonMath(i, i+n) {
		data, m := parseSuffix(s[n:])
		l.resplit(i+n, i+n+m)
		return BuildTable(rows, cols, l.gridData(data, "table", rows, cols), l.p.parse), i + n + m, true
	}
	if layout, n, ok := lexChoiceHead(s); ok && l.regions.NonMath(i, i+n) {
		data, m := parseSuffix(s[n:])
		l.resplit(i+n, i+n+m)
		return BuildChoiceGrid(layout, l.gridData(data, "choice", 0, 0), l.p.parse), i + n + m, true
	}
	if n, next, ok := l.styled(i, end); ok {
		return n, next, true
	}
	if n, next, ok := l.box(i, end); ok {
		return n, next, true
	}
	return nil, 0, false
}

// resplit classifies text after consumed data suffix [from, to) again.
// Quoted values are taken verbatim, so a dollar inside of them must not
// open math which runs past the suffix.
func (l *lexer) resplit(from, to int) {
	if to <= from {
		return
	}
	k := 0
	for k < len(l.regions) && l.regions[k].End <= from {
		k++
	}
	rs := slices.Clone(l.regions[:k])
	add := func(r Region) {
		if n := len(rs); n > 0 && !r.Math && !rs[n-1].Math && rs[n-1].End == r.Start {
			rs[n-1].End = r.End
			return
		}
		rs = append(rs, r)
	}
	if k < len(l.regions) && l.regions[k].Start < from {
		add(Region{Start: l.regions[k].Start, End: from})
	}
	add(Region{Start: from, End: to})
	for _, r := range splitRegions(l.src[to:]) {
		r.Start += to
		r.End += to
		add(r)
	}
	l.regions = rs
}

// gridData drops keys that do not address a cell.
func (l *lexer) gridData(data map[string]string, what string, rows, cols int) map[string]string {
	for k := range data {
		valid := false
		if rows > 0 {
			r, c, ok := splitDims(k)
			valid = ok && r >= 1 && c >= 1 && r <= rows && c <= cols
		} else {
			n, err := strconv.Atoi(k)
			valid = err == nil && n >= 1 && n <= ChoiceCount
		}
		if !valid {
			l.p.log.Debug("Ignoring grid data outside of grid", zap.String("grid", what), zap.String("key", k))
			delete(data, k)
		}
	}
	return data
}

// findText returns position of first needle occurrence in [from, to) which
// lies in non-math text.
func (l *lexer) findText(from, to int, needle string) int {
	for from < to {
		k := strings.Index(l.src[from:to], needle)
		if k < 0 {
			return -1
		}
		pos := from + k
		if l.regions.NonMath(pos, pos+len(needle)) {
			return pos
		}
		from = pos + 1
	}
	return -1
}

func (l *lexer) conceptBlank(i, end int) (Node, int, bool) {
	sep, raw, n, ok := lexConceptOpen(l.src[i:end])
	if !ok || !l.regions.NonMath(i, i+n) {
		return nil, 0, false
	}
	openEnd := i + n
	body, hasBody, next := "", false, openEnd
	if closer := l.findText(openEnd, end, kwConceptClose); closer >= 0 {
		if l.findText(openEnd, closer, "["+kwConceptBlank) < 0 {
			body, hasBody, next = l.src[openEnd:closer], true, closer+len(kwConceptClose)
		}
	}
	cb := newConceptBlank(sep, raw, body, hasBody, false)
	cb.Index = l.p.tr.Next(cb.Answer, cb.IsMath)
	return cb, next, true
}

func (l *lexer) styled(i, end int) (Node, int, bool) {
	kind, kw, n, ok := lexStyledOpen(l.src[i:end])
	if !ok || !l.regions.NonMath(i, i+n) {
		return nil, 0, false
	}
	depth := 1
	for k := i + n; k < end; {
		if r, ok := l.regions.MathAt(k); ok {
			k = r.End
			continue
		}
		switch l.src[k] {
		case '\\':
			k += 2
			continue
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return &StyledSpan{Style: kind, Keyword: kw, Children: l.run(i+n, k)}, k + 1, true
			}
		}
		k++
	}
	return nil, 0, false
}

func (l *lexer) box(i, end int) (Node, int, bool) {
	if l.inBox {
		return nil, 0, false
	}
	label, rect, n, ok := lexBoxOpen(l.src[i:end])
	if !ok || !l.regions.NonMath(i, i+n) {
		return nil, 0, false
	}
	opener, closeTok := "["+kwBox, kwBoxClose
	if rect {
		opener, closeTok = "["+kwRectBox+"]", kwRectBoxClose
	}
	openEnd := i + n
	lineEnd := end
	if k := strings.IndexByte(l.src[openEnd:end], '\n'); k >= 0 {
		lineEnd = openEnd + k
	}
	inline := strings.TrimSpace(l.src[openEnd:lineEnd]) != ""

	closer := l.findText(openEnd, end, closeTok)
	single := false
	switch {
	case closer >= 0:
		single = inline && l.findText(openEnd, closer, opener) >= 0
	case inline:
		single = true
	default:
		l.p.log.Debug("Unterminated box left as text", zap.String("opener", l.src[i:openEnd]))
		return nil, 0, false
	}

	var children Nodes
	next := 0
	l.inBox = true
	defer func() { l.inBox = false }()
	if single {
		bs, be := openEnd, lineEnd
		for bs < be && isHSpace(l.src[bs]) {
			bs++
		}
		for be > bs && (isHSpace(l.src[be-1]) || l.src[be-1] == '\r') {
			be--
		}
		children, next = l.run(bs, be), lineEnd
	} else {
		bs, be := openEnd, closer
		if bs < be && l.src[bs] == '\n' {
			bs++
		}
		if be > bs && l.src[be-1] == '\n' {
			be--
		}
		children, next = l.run(bs, be), closer+len(closeTok)
	}
	if rect {
		return &RectBox{Children: children}, next, true
	}
	return &Box{Label: label, Children: children}, next, true
}

// math builds math node. Blank and concept blank tokens inside math are
// replaced with boxed text in TeX, concept blanks still receive indices.
func (l *lexer) math(r Region) *Math {
	d := 1
	if r.Display {
		d = 2
	}
	m := &Math{Source: l.src[r.Start+d : r.End-d], Display: r.Display}

	src := m.Source
	if !strings.Contains(src, "[") {
		m.TeX = src
		return m
	}
	var b strings.Builder
	for i := 0; i < len(src); {
		if src[i] != '[' {
			b.WriteByte(src[i])
			i++
			continue
		}
		if bl, n, ok := lexBlank(src[i:]); ok {
			bl.InMath = true
			m.Blanks = append(m.Blanks, bl)
			b.WriteString(boxedText(bl.Label))
			i += n
			continue
		}
		if sep, raw, n, ok := lexConceptOpen(src[i:]); ok {
			body, hasBody, next := "", false, i+n
			if k := strings.Index(src[i+n:], kwConceptClose); k >= 0 && !strings.Contains(src[i+n:i+n+k], "["+kwConceptBlank) {
				body, hasBody, next = src[i+n:i+n+k], true, i+n+k+len(kwConceptClose)
			}
			cb := newConceptBlank(sep, raw, body, hasBody, true)
			cb.Index = l.p.tr.Next(cb.Answer, true)
			m.Concepts = append(m.Concepts, cb)
			b.WriteString(boxedText("(" + strconv.Itoa(cb.Index) + ")"))
			i = next
			continue
		}
		b.WriteByte('[')
		i++
	}
	m.TeX = b.String()
	return m
}
