package css

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
)

// cssEscapeDoubleQuoted escapes a string for use inside a CSS double-quoted
// string literal.
func cssEscapeDoubleQuoted(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\a `)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Value represents a parsed CSS property value.
type Value struct {
	Raw     string  // Original CSS value string (e.g., "1.2em", "bold", "#ff0000")
	Value   float64 // Numeric value if applicable
	Unit    string  // Unit if applicable: "em", "px", "%", "pt", etc.
	Keyword string  // Keyword if applicable: "bold", "italic", "center", etc.
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	if v.Raw != "" && v.Keyword == "" {
		firstChar := rune(v.Raw[0])
		if unicode.IsDigit(firstChar) || firstChar == '.' || firstChar == '-' || firstChar == '+' {
			return true
		}
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Points converts length to points. Relative units are resolved against
// base size in points, unitless numbers are treated as pixels.
func (v Value) Points(base float64) (float64, bool) {
	if !v.IsNumeric() {
		return 0, false
	}
	switch v.Unit {
	case "pt":
		return v.Value, true
	case "px", "":
		return v.Value * 0.75, true
	case "em", "rem":
		return v.Value * base, true
	case "%":
		return v.Value / 100 * base, true
	case "in":
		return v.Value * 72, true
	case "mm":
		return v.Value * 72 / 25.4, true
	case "cm":
		return v.Value * 72 / 2.54, true
	}
	return 0, false
}

// Selector represents a parsed CSS selector with its components.
type Selector struct {
	Raw      string    // Original selector string
	Element  string    // Element name (e.g., "div", "span") or empty for class-only
	Class    string    // Class name without dot (e.g., "data-item") or empty
	Ancestor *Selector // Ancestor selector for descendant selectors (e.g., ".page .column")
}

// IsSimple returns true if this is a simple selector (element, class, or element.class).
func (s Selector) IsSimple() bool {
	return s.Element != "" || s.Class != ""
}

// IsDescendant returns true if this is a descendant selector.
func (s Selector) IsDescendant() bool {
	return s.Ancestor != nil
}

// Rule represents a single CSS rule (selector + properties).
type Rule struct {
	Selector   Selector
	Properties map[string]Value
}

// GetProperty returns the value for a property, or empty Value if not found.
func (r Rule) GetProperty(name string) (Value, bool) {
	v, ok := r.Properties[name]
	return v, ok
}

// FontFace represents an @font-face declaration.
type FontFace struct {
	Family string
	Src    string
	Style  string
	Weight string
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Rule or FontFace is non-nil.
type StylesheetItem struct {
	Rule     *Rule
	FontFace *FontFace
}

// Stylesheet represents a parsed CSS stylesheet.
type Stylesheet struct {
	Items    []StylesheetItem // All top-level items in source order
	Warnings []string         // Warnings for unsupported features
}

// FontFaces returns all @font-face declarations with non-empty family.
func (s *Stylesheet) FontFaces() []FontFace {
	var faces []FontFace
	for _, item := range s.Items {
		if item.FontFace != nil && item.FontFace.Family != "" {
			faces = append(faces, *item.FontFace)
		}
	}
	return faces
}

// RulesBySelector returns all top-level rules matching the given selector string.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var matches []Rule
	for _, item := range s.Items {
		if item.Rule != nil && item.Rule.Selector.Raw == selector {
			matches = append(matches, *item.Rule)
		}
	}
	return matches
}

// Append adds items of other stylesheet after own items, later rules win in
// cascade.
func (s *Stylesheet) Append(other *Stylesheet) {
	if other == nil {
		return
	}
	s.Items = append(s.Items, other.Items...)
	s.Warnings = append(s.Warnings, other.Warnings...)
}

// AddFontFace prepends @font-face declaration.
func (s *Stylesheet) AddFontFace(ff FontFace) {
	s.Items = append([]StylesheetItem{{FontFace: &ff}}, s.Items...)
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
// Property order within a rule is sorted alphabetically for deterministic output.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, item := range s.Items {
		var n int
		var err error

		switch {
		case item.FontFace != nil:
			n, err = writeFontFace(w, item.FontFace)
		case item.Rule != nil:
			n, err = writeRule(w, item.Rule)
		}

		total += int64(n)
		if err != nil {
			return total, err
		}

		if i < len(s.Items)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func writeRule(w io.Writer, rule *Rule) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s {\n", rule.Selector.Raw)
	total += n
	if err != nil {
		return total, err
	}
	n, err = writeProperties(w, rule.Properties)
	total += n
	if err != nil {
		return total, err
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

func writeProperties(w io.Writer, props map[string]Value) (int, error) {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var total int
	for _, name := range names {
		n, err := fmt.Fprintf(w, "  %s: %s;\n", name, props[name].Raw)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func writeFontFace(w io.Writer, ff *FontFace) (int, error) {
	var b strings.Builder
	b.WriteString("@font-face {\n")
	if ff.Family != "" {
		fmt.Fprintf(&b, "  font-family: \"%s\";\n", cssEscapeDoubleQuoted(ff.Family))
	}
	if ff.Src != "" {
		fmt.Fprintf(&b, "  src: %s;\n", ff.Src)
	}
	if ff.Style != "" {
		fmt.Fprintf(&b, "  font-style: %s;\n", ff.Style)
	}
	if ff.Weight != "" {
		fmt.Fprintf(&b, "  font-weight: %s;\n", ff.Weight)
	}
	b.WriteString("}\n")
	return io.WriteString(w, b.String())
}
