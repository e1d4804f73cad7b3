package importer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"sheetc/common"
)

// Header dialect style keywords.
const (
	styleBasic    = "기본"
	styleConcept  = "개념"
	styleAnswer   = "정답"
	styleBordered = "박스"
	styleBgGray   = "음영"
	styleBreak    = "나누기"
	styleSpacer   = "여백"
)

var variantStyles = map[string]common.Variant{
	"좌컨셉":  common.VariantLeftConcept,
	"상단컨셉": common.VariantTopConcept,
	"2단컨셉": common.VariantTwoColConcept,
}

var alignStyles = map[string]common.TextAlign{
	"왼쪽":  common.TextAlignLeft,
	"가운데": common.TextAlignCenter,
	"오른쪽": common.TextAlignRight,
	"양쪽":  common.TextAlignJustify,
}

func isStyle(s string) bool {
	switch s {
	case styleBasic, styleConcept, styleAnswer, styleBordered, styleBgGray, styleBreak, styleSpacer:
		return true
	}
	if _, ok := variantStyles[s]; ok {
		return true
	}
	_, ok := alignStyles[s]
	return ok
}

// header is decoded "[[style[,style]_label]]".
type header struct {
	styles []string
	label  string
}

func (h header) has(style string) bool {
	for _, s := range h.styles {
		if s == style {
			return true
		}
	}
	return false
}

func splitStyles(s string) []string {
	var res []string
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}

// parseHeader decodes header text. The first '_' separated segment is
// a comma separated style list, following segments which are style
// keywords are styles too, the rest is the label. Without '_' the header
// is either a pure style list or a label of basic block.
func parseHeader(text string) header {
	text = strings.TrimSpace(text)
	segments := strings.Split(text, "_")
	if len(segments) == 1 {
		styles := splitStyles(text)
		all := len(styles) > 0
		for _, s := range styles {
			all = all && isStyle(s)
		}
		if all {
			return header{styles: styles}
		}
		return header{styles: []string{styleBasic}, label: text}
	}

	h := header{styles: splitStyles(segments[0])}
	i := 1
	for ; i < len(segments)-1; i++ {
		seg := strings.TrimSpace(segments[i])
		if !isStyle(seg) {
			break
		}
		h.styles = append(h.styles, seg)
	}
	h.label = strings.TrimSpace(strings.Join(segments[i:], "_"))
	if len(h.styles) == 0 {
		h.styles = []string{styleBasic}
	}
	return h
}

// conceptLabel reports whether label starts with the word "개념" not
// followed by another letter.
func conceptLabel(label string) bool {
	rest, ok := strings.CutPrefix(label, styleConcept)
	if !ok {
		return false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return rest == "" || !unicode.IsLetter(r)
}

func (h header) blockType() common.BlockType {
	switch {
	case h.has(styleBreak):
		return common.BlockTypeBreak
	case h.has(styleSpacer):
		return common.BlockTypeSpacer
	case h.has(styleAnswer):
		return common.BlockTypeAnswer
	case h.has(styleConcept) || conceptLabel(h.label):
		return common.BlockTypeConcept
	}
	return common.BlockTypeExample
}

func (h header) variant() common.Variant {
	for _, s := range h.styles {
		if v, ok := variantStyles[s]; ok {
			return v
		}
	}
	return ""
}

func (h header) align() common.TextAlign {
	for _, s := range h.styles {
		if a, ok := alignStyles[s]; ok {
			return a
		}
	}
	return ""
}

// formatHeader is inverse of parseHeader for styles produced by export.
func formatHeader(styles []string, label string) string {
	if len(styles) == 0 {
		styles = []string{styleBasic}
	}
	return strings.Join(styles, ",") + "_" + label
}
