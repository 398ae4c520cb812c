package template

import (
	"fmt"
	"html"
	"strings"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
)

// Markup decides how rendered fragments are marked for a target surface.
type Markup struct {
	Name        string
	Superscript func(s string) string
	Subscript   func(s string) string
	Equation    func(id, body string) string
	InlineMath  func(body string) string
	LineBreak   string
}

// HTMLMarkup targets browsers.
var HTMLMarkup = Markup{
	Name:        domain.MarkupHTML,
	Superscript: func(s string) string { return "<sup>" + s + "</sup>" },
	Subscript:   func(s string) string { return "<sub>" + s + "</sub>" },
	Equation: func(id, body string) string {
		return fmt.Sprintf(`<span class="equation" data-equation="%s">%s</span>`, html.EscapeString(id), body)
	},
	InlineMath: func(body string) string { return `<span class="math-inline">` + body + "</span>" },
	LineBreak:  "<br>",
}

// TextMarkup targets terminals and plain-text exports.
var TextMarkup = Markup{
	Name:        domain.MarkupText,
	Superscript: func(s string) string { return mapRunes(s, superscripts, "^(", ")") },
	Subscript:   func(s string) string { return mapRunes(s, subscripts, "_(", ")") },
	Equation:    func(_, body string) string { return "⟦" + body + "⟧" },
	InlineMath:  func(body string) string { return "⟨" + body + "⟩" },
	LineBreak:   "\n",
}

// MarkupByName returns the markup registered under name.
func MarkupByName(name string) (Markup, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", domain.MarkupHTML:
		return HTMLMarkup, nil
	case domain.MarkupText:
		return TextMarkup, nil
	default:
		return Markup{}, &domain.OpError{
			Op:   "template.markup",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("unsupported markup %q (expected html|text): %w", name, domain.ErrInvalidConfig),
		}
	}
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹', '-': '⁻',
}

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄',
	'5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉', '-': '₋',
}

// mapRunes maps every rune through table, or wraps s when a rune has no mapping.
func mapRunes(s string, table map[rune]rune, open, end string) string {
	var b strings.Builder
	for _, r := range s {
		m, ok := table[r]
		if !ok {
			return open + s + end
		}
		b.WriteRune(m)
	}
	return b.String()
}
