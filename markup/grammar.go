package markup

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"sheetc/common"
)

// Token keywords. Every inline token starts with '[' followed by one of
// these and a separator.
const (
	kwBlank        = "빈칸"
	kwConceptBlank = "개념빈칸"
	kwConceptClose = "[/개념빈칸]"
	kwImage        = "이미지"
	kwPicture      = "그림"
	kwTable        = "표"
	kwChoice       = "선지"
	kwBox          = "블록박스"
	kwBoxClose     = "[/블록박스]"
	kwRectBox      = "블록사각형"
	kwRectBoxClose = "[/블록사각형]"
	kwChoiceRows   = "행"
)

// MaxTableDim limits rows and columns of table token.
const MaxTableDim = 20

// ChoiceCount is number of choices in every choice grid.
const ChoiceCount = 5

var styledKeywords = []struct {
	keyword string
	kind    common.StyledKind
}{
	{"굵게", common.StyledKindBold},
	{"볼드", common.StyledKindBold},
	{"BOLD", common.StyledKindBold},
	{"밑줄", common.StyledKindUnderline},
}

// StyledKeyword returns canonical keyword for styled span kind.
func StyledKeyword(kind common.StyledKind) string {
	if kind == common.StyledKindUnderline {
		return "밑줄"
	}
	return "굵게"
}

// matchKeyword checks that s starts with "[" + kw and returns the rest
// following the keyword.
func matchKeyword(s, kw string) (string, bool) {
	if len(s) < 1+len(kw) || s[0] != '[' || s[1:1+len(kw)] != kw {
		return "", false
	}
	return s[1+len(kw):], true
}

// matchSeparator accepts ':' or '_' and returns it with the rest.
func matchSeparator(s string) (rune, string, bool) {
	if s == "" {
		return 0, "", false
	}
	switch s[0] {
	case ':', '_':
		return rune(s[0]), s[1:], true
	}
	return 0, "", false
}

// scanLabel returns text up to the first ']' on the same line.
func scanLabel(s string) (string, int, bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ']':
			return s[:i], i + 1, true
		case '\n', '[':
			return "", 0, false
		}
	}
	return "", 0, false
}

// parseDims parses "RxC" with both dimensions in 1..MaxTableDim.
func parseDims(s string) (int, int, bool) {
	r, c, ok := splitDims(s)
	if !ok || r < 1 || c < 1 || r > MaxTableDim || c > MaxTableDim {
		return 0, 0, false
	}
	return r, c, true
}

func splitDims(s string) (int, int, bool) {
	i := strings.IndexFunc(s, func(r rune) bool { return r == 'x' || r == 'X' || r == '×' })
	if i <= 0 {
		return 0, 0, false
	}
	_, sz := utf8.DecodeRuneInString(s[i:])
	r, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, 0, false
	}
	c, err := strconv.Atoi(s[i+sz:])
	if err != nil {
		return 0, 0, false
	}
	return r, c, true
}

// CellKey formats table cell key.
func CellKey(row, col int) string {
	return strconv.Itoa(row) + "x" + strconv.Itoa(col)
}

// parseChoiceLayout parses "1행", "2행" or "5행".
func parseChoiceLayout(s string) (common.ChoiceLayout, bool) {
	n, ok := strings.CutSuffix(s, kwChoiceRows)
	if !ok {
		return "", false
	}
	l, err := common.ParseChoiceLayout(n)
	if err != nil {
		return "", false
	}
	return l, true
}

func isHSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

// collapseSpace trims and replaces whitespace runs with single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isSingleMath reports whether s is exactly one inline math expression.
func isSingleMath(s string) bool {
	if len(s) < 3 || s[0] != '$' || s[len(s)-1] != '$' || s[1] == '$' {
		return false
	}
	inner := s[1 : len(s)-1]
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' {
			i++
			continue
		}
		if inner[i] == '$' {
			return false
		}
	}
	return true
}

// Token matchers. Each works on text starting at '[' and returns number of
// bytes consumed.

func lexBlank(s string) (*Blank, int, bool) {
	rest, ok := matchKeyword(s, kwBlank)
	if !ok {
		return nil, 0, false
	}
	sep, rest, ok := matchSeparator(rest)
	if !ok {
		return nil, 0, false
	}
	label, n, ok := scanLabel(rest)
	if !ok {
		return nil, 0, false
	}
	return &Blank{Delimiter: sep, Label: label}, len(s) - len(rest) + n, true
}

// lexConceptOpen matches "[개념빈칸:raw]" opener.
func lexConceptOpen(s string) (rune, string, int, bool) {
	rest, ok := matchKeyword(s, kwConceptBlank)
	if !ok {
		return 0, "", 0, false
	}
	sep, rest, ok := matchSeparator(rest)
	if !ok {
		return 0, "", 0, false
	}
	raw, n, ok := scanLabel(rest)
	if !ok {
		return 0, "", 0, false
	}
	return sep, raw, len(s) - len(rest) + n, true
}

func newConceptBlank(sep rune, raw, body string, hasBody, inMath bool) *ConceptBlank {
	answer := collapseSpace(strings.TrimLeft(raw, "_") + body)
	return &ConceptBlank{
		Delimiter: sep,
		RawLabel:  raw,
		Body:      body,
		HasBody:   hasBody,
		Answer:    answer,
		InMath:    inMath,
		IsMath:    inMath || isSingleMath(answer),
	}
}

// lexImage matches image placeholder "[이미지:label]" and image reference
// "[그림:src]".
func lexImage(s string) (Node, int, bool) {
	for _, kw := range []string{kwImage, kwPicture} {
		rest, ok := matchKeyword(s, kw)
		if !ok {
			continue
		}
		_, rest, ok = matchSeparator(rest)
		if !ok {
			return nil, 0, false
		}
		label, n, ok := scanLabel(rest)
		if !ok {
			return nil, 0, false
		}
		consumed := len(s) - len(rest) + n
		if kw == kwPicture {
			src := strings.TrimSpace(label)
			if src == "" {
				return nil, 0, false
			}
			return &Image{Src: src}, consumed, true
		}
		return &ImagePlaceholder{Label: label}, consumed, true
	}
	return nil, 0, false
}

// lexTableHead matches "[표_RxC]".
func lexTableHead(s string) (int, int, int, bool) {
	rest, ok := matchKeyword(s, kwTable)
	if !ok || !strings.HasPrefix(rest, "_") {
		return 0, 0, 0, false
	}
	rest = rest[1:]
	dims, n, ok := scanLabel(rest)
	if !ok {
		return 0, 0, 0, false
	}
	r, c, ok := parseDims(strings.TrimSpace(dims))
	if !ok {
		return 0, 0, 0, false
	}
	return r, c, len(s) - len(rest) + n, true
}

// lexChoiceHead matches "[선지_N행]".
func lexChoiceHead(s string) (common.ChoiceLayout, int, bool) {
	rest, ok := matchKeyword(s, kwChoice)
	if !ok || !strings.HasPrefix(rest, "_") {
		return "", 0, false
	}
	rest = rest[1:]
	spec, n, ok := scanLabel(rest)
	if !ok {
		return "", 0, false
	}
	layout, ok := parseChoiceLayout(strings.TrimSpace(spec))
	if !ok {
		return "", 0, false
	}
	return layout, len(s) - len(rest) + n, true
}

// lexStyledOpen matches "[굵게:" and friends, body follows.
func lexStyledOpen(s string) (common.StyledKind, string, int, bool) {
	for _, sk := range styledKeywords {
		rest, ok := matchKeyword(s, sk.keyword)
		if !ok || !strings.HasPrefix(rest, ":") {
			continue
		}
		return sk.kind, sk.keyword, 1 + len(sk.keyword) + 1, true
	}
	return "", "", 0, false
}

// lexBoxOpen matches "[블록박스]", "[블록박스_label]" and "[블록사각형]".
func lexBoxOpen(s string) (string, bool, int, bool) {
	if rest, ok := matchKeyword(s, kwRectBox); ok {
		if strings.HasPrefix(rest, "]") {
			return "", true, len(s) - len(rest) + 1, true
		}
		return "", false, 0, false
	}
	rest, ok := matchKeyword(s, kwBox)
	if !ok {
		return "", false, 0, false
	}
	if strings.HasPrefix(rest, "]") {
		return "", false, len(s) - len(rest) + 1, true
	}
	if !strings.HasPrefix(rest, "_") {
		return "", false, 0, false
	}
	rest = rest[1:]
	label, n, ok := scanLabel(rest)
	if !ok {
		return "", false, 0, false
	}
	return label, false, len(s) - len(rest) + n, true
}

// Data suffix: [ws] [':' ws] item {[ws] [','] [ws] item}
// item: '(' [ws] key '_"' value '"' [ws] ')'

func parseSuffix(s string) (map[string]string, int) {
	i := skipHSpace(s, 0)
	if i < len(s) && s[i] == ':' {
		i = skipHSpace(s, i+1)
	}
	var (
		items    map[string]string
		consumed int
	)
	for {
		k, v, n, ok := parseItem(s[i:])
		if !ok {
			break
		}
		if items == nil {
			items = make(map[string]string)
		}
		items[k] = v
		i += n
		consumed = i
		i = skipHSpace(s, i)
		if i < len(s) && s[i] == ',' {
			i++
		}
		i = skipHSpace(s, i)
	}
	return items, consumed
}

func parseItem(s string) (string, string, int, bool) {
	if s == "" || s[0] != '(' {
		return "", "", 0, false
	}
	i := skipHSpace(s, 1)
	start := i
	for i < len(s) && s[i] != '_' {
		if !isKeyByte(s[i]) {
			return "", "", 0, false
		}
		i++
	}
	if i == start || !strings.HasPrefix(s[i:], `_"`) {
		return "", "", 0, false
	}
	key := strings.ToLower(s[start:i])
	i += 2

	var b strings.Builder
	for ; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		if s[i] == '"' {
			break
		}
		b.WriteByte(s[i])
	}
	if i >= len(s) {
		return "", "", 0, false
	}
	i = skipHSpace(s, i+1)
	if i >= len(s) || s[i] != ')' {
		return "", "", 0, false
	}
	return key, b.String(), i + 1, true
}

func isKeyByte(b byte) bool {
	return b >= '0' && b <= '9' || b == 'x' || b == 'X'
}

func skipHSpace(s string, i int) int {
	for i < len(s) && isHSpace(s[i]) {
		i++
	}
	return i
}

// escapeValue escapes backslash and double quote in data suffix value.
func escapeValue(s string) string {
	if !strings.ContainsAny(s, `\"`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' || s[i] == '"' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

var texTextEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`#`, `\#`,
	`%`, `\%`,
	`&`, `\&`,
	`_`, `\_`,
	`^`, `\^{}`,
	`~`, `\~{}`,
)

// boxedText returns math-safe rendering of blank label.
func boxedText(label string) string {
	return `\boxed{\text{` + texTextEscaper.Replace(label) + `}}`
}
