package tui

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func unitLabel(u domain.Unit) string {
	sym := u.Symbol
	if sym == "" {
		sym = u.ID
	}
	if u.Name == "" || u.Name == sym {
		return sym
	}
	return u.Name + " (" + sym + ")"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}

func renderConversion(res domain.ConversionResult, from, to domain.Unit) string {
	var b strings.Builder
	b.WriteString(formatNumber(res.Value))
	b.WriteString(" ")
	b.WriteString(symbolOf(from))
	b.WriteString(" = ")
	b.WriteString(formatNumber(res.Result))
	b.WriteString(" ")
	b.WriteString(symbolOf(to))
	return b.String()
}

func symbolOf(u domain.Unit) string {
	if u.Symbol != "" {
		return u.Symbol
	}
	return u.ID
}
