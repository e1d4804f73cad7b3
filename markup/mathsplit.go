package markup

import (
	"slices"
	"strings"
)

// Region is half open byte range [Start, End) of text classified as math or
// non-math. Math regions include their dollar delimiters.
type Region struct {
	Start   int
	End     int
	Math    bool
	Display bool
}

// Regions is ordered list of disjoint regions covering whole text.
type Regions []Region

// environments whose bodies may contain stray '$' which must not close math.
var environments = []string{
	"matrix", "pmatrix", "bmatrix", "vmatrix", "Vmatrix",
	"cases", "aligned", "align", "align*", "gathered", "array", "split",
}

// SplitMath normalizes LaTeX environments and classifies the result into math
// and non-math regions. Returned regions refer to the normalized text.
func SplitMath(text string) (string, Regions) {
	text = wrapEnvironments(text)
	return text, splitRegions(text)
}

func splitRegions(text string) Regions {
	var (
		regions Regions
		last    int
	)
	emit := func(start, end int, display bool) {
		if start > last {
			regions = append(regions, Region{Start: last, End: start})
		}
		regions = append(regions, Region{Start: start, End: end, Math: true, Display: display})
		last = end
	}

	n := len(text)
	for i := 0; i < n; {
		switch {
		case text[i] == '\\' && i+1 < n && (text[i+1] == '$' || text[i+1] == '\\'):
			i += 2
		case text[i] == '$' && i+1 < n && text[i+1] == '$':
			if k := findClose(text, i+2, "$$"); k > i+2 {
				emit(i, k+2, true)
				i = k + 2
				continue
			}
			i += 2
		case text[i] == '$':
			if k := findClose(text, i+1, "$"); k > i+1 {
				emit(i, k+1, false)
				i = k + 1
				continue
			}
			i++
		default:
			i++
		}
	}
	if last < n || len(regions) == 0 {
		regions = append(regions, Region{Start: last, End: n})
	}
	return regions
}

// findClose returns position of next unescaped delimiter at or after from.
func findClose(text string, from int, delim string) int {
	for k := from; k < len(text); k++ {
		if text[k] == '\\' {
			k++
			continue
		}
		if strings.HasPrefix(text[k:], delim) {
			return k
		}
	}
	return -1
}

// NonMath reports whether [start, end) lies entirely within one non-math
// region.
func (rs Regions) NonMath(start, end int) bool {
	i, found := slices.BinarySearchFunc(rs, start, func(r Region, pos int) int {
		switch {
		case r.End <= pos:
			return -1
		case r.Start > pos:
			return 1
		}
		return 0
	})
	if !found {
		return false
	}
	r := rs[i]
	return !r.Math && end <= r.End
}

// MathAt returns math region starting exactly at pos.
func (rs Regions) MathAt(pos int) (Region, bool) {
	i, found := slices.BinarySearchFunc(rs, pos, func(r Region, p int) int {
		switch {
		case r.Start < p:
			return -1
		case r.Start > p:
			return 1
		}
		return 0
	})
	if found && rs[i].Math {
		return rs[i], true
	}
	return Region{}, false
}

// wrapEnvironments removes '$' inside known \begin{env}...\end{env} blocks
// and wraps blocks found outside of open math into inline math.
func wrapEnvironments(text string) string {
	if !strings.Contains(text, `\begin{`) {
		return text
	}
	var b strings.Builder
	for {
		start, end := nextEnvironment(text)
		if start < 0 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:start])
		body := stripDollars(text[start:end])
		if mathOpen(b.String()) {
			b.WriteString(body)
		} else {
			b.WriteByte('$')
			b.WriteString(body)
			b.WriteByte('$')
		}
		text = text[end:]
	}
	return b.String()
}

// nextEnvironment locates first complete known environment, nested
// environments of the same name are matched by depth.
func nextEnvironment(text string) (int, int) {
	from := 0
	for {
		i := strings.Index(text[from:], `\begin{`)
		if i < 0 {
			return -1, -1
		}
		start := from + i
		rest := text[start+len(`\begin{`):]
		j := strings.IndexByte(rest, '}')
		if j < 0 {
			return -1, -1
		}
		name := rest[:j]
		if !slices.Contains(environments, name) {
			from = start + 1
			continue
		}
		open, closing := `\begin{`+name+`}`, `\end{`+name+`}`
		depth, pos := 0, start
		for pos < len(text) {
			nb := strings.Index(text[pos:], open)
			ne := strings.Index(text[pos:], closing)
			if ne < 0 {
				break
			}
			if nb >= 0 && nb < ne {
				depth++
				pos += nb + len(open)
				continue
			}
			depth--
			pos += ne + len(closing)
			if depth == 0 {
				return start, pos
			}
		}
		from = start + 1
	}
}

func stripDollars(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			i++
			continue
		}
		if s[i] != '$' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// mathOpen scans text left to right and reports whether it ends inside an
// unclosed math region.
func mathOpen(s string) bool {
	const (
		none = iota
		inline
		display
	)
	state := none
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			i++
		case s[i] == '$' && i+1 < len(s) && s[i+1] == '$' && state != inline:
			if state == none {
				state = display
			} else {
				state = none
			}
			i++
		case s[i] == '$':
			switch state {
			case none:
				state = inline
			case inline:
				state = none
			}
		}
	}
	return state != none
}
