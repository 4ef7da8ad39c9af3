package numfmt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/nfp"
)

// section wraps one parsed nfp.Section with the bits of metadata this
// package's dispatch needs beyond what nfp's token stream already says:
// the section's condition (if bracketed, e.g. "[<100]"), whether it looks
// like a date/time pattern, and its raw text (needed for scientific-
// notation detection, which nfp's token set does not model). It embeds
// nfp.Section directly (rather than naming its token slice's element type,
// which nfp does not export under any name the teacher's renderer ever
// spells out) so callers range over sec.Items exactly as the teacher does.
type section struct {
	nfp.Section
	condition string // e.g. "<100", "" if unconditional
	isDate    bool
	raw       string
}

var sectionConditionRe = regexp.MustCompile(`^\[([<>=]+)(-?[0-9.]+)\]`)

// parseSections splits code on unquoted ';' (delegated to nfp, which
// already understands quoted literals and bracket groups) and attaches the
// per-section metadata selectSection/renderNumber/renderDateTime need.
func parseSections(code string) []section {
	parser := nfp.NumberFormatParser()
	rawParts := splitUnquoted(code, ';')
	parsed := parser.Parse(code)
	out := make([]section, 0, len(parsed))
	for i, p := range parsed {
		raw := ""
		if i < len(rawParts) {
			raw = rawParts[i]
		}
		cond := ""
		if m := sectionConditionRe.FindStringSubmatch(raw); m != nil {
			cond = m[1] + m[2]
		}
		out = append(out, section{
			Section:   p,
			condition: cond,
			isDate:    sectionLooksLikeDate(p, raw),
			raw:       raw,
		})
	}
	return out
}

// splitUnquoted splits s on sep, ignoring separators inside a double-quoted
// literal or a bracketed condition/color group — mirrors the quoting rules
// the lexer in formula/lexer.go applies to string literals.
func splitUnquoted(s string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	inQuote := false
	inBracket := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote:
			cur.WriteByte(c)
			if c == '"' {
				inQuote = false
			}
		case inBracket:
			cur.WriteByte(c)
			if c == ']' {
				inBracket = false
			}
		case c == '"':
			inQuote = true
			cur.WriteByte(c)
		case c == '[':
			inBracket = true
			cur.WriteByte(c)
		case c == sep:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

func sectionLooksLikeDate(sec nfp.Section, raw string) bool {
	for _, tok := range sec.Items {
		if tok.TType == nfp.TokenTypeDateTimes || tok.TType == nfp.TokenTypeElapsedDateTimes {
			return true
		}
	}
	inQuote := false
	for _, ch := range raw {
		switch {
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
			continue
		case ch == 'y' || ch == 'Y' || ch == 'd' || ch == 'D' || ch == 'h' || ch == 'H' || ch == 's' || ch == 'S':
			return true
		}
	}
	return false
}

// selectSection implements spec §4.7's section-selection rule: a section
// carrying a bracket condition is tried in order and the first whose
// condition is satisfied wins; sections with no condition fall back to the
// positional 1/2/3/4-section (positive|negative|zero|text) convention.
func selectSection(sections []section, val float64) (section, bool) {
	hasConditional := false
	for _, s := range sections {
		if s.condition != "" {
			hasConditional = true
			break
		}
	}
	if hasConditional {
		var fallback *section
		for i := range sections {
			s := &sections[i]
			if s.condition == "" {
				if fallback == nil {
					fallback = s
				}
				continue
			}
			if evalCondition(s.condition, val) {
				return *s, true
			}
		}
		if fallback != nil {
			return *fallback, true
		}
		return section{}, false
	}

	switch len(sections) {
	case 0:
		return section{}, false
	case 1:
		return sections[0], true
	case 2:
		if val < 0 {
			return sections[1], true
		}
		return sections[0], true
	default: // 3 or 4; the 4th (text) section never applies to a numeric value
		switch {
		case val > 0:
			return sections[0], true
		case val < 0:
			return sections[1], true
		default:
			return sections[2], true
		}
	}
}

var conditionRe = regexp.MustCompile(`^([<>=]+)(-?[0-9.]+)$`)

func evalCondition(cond string, val float64) bool {
	m := conditionRe.FindStringSubmatch(cond)
	if m == nil {
		return false
	}
	n, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return false
	}
	switch m[1] {
	case "<":
		return val < n
	case "<=":
		return val <= n
	case ">":
		return val > n
	case ">=":
		return val >= n
	case "=":
		return val == n
	case "<>":
		return val != n
	default:
		return false
	}
}

func renderTextSection(text string, sec section) string {
	var sb strings.Builder
	for _, tok := range sec.Items {
		switch tok.TType {
		case nfp.TokenTypeLiteral:
			if tok.TValue == "@" {
				sb.WriteString(text)
			} else {
				sb.WriteString(tok.TValue)
			}
		}
	}
	if sb.Len() == 0 {
		return text
	}
	return sb.String()
}

// scientificSpec reports whether raw contains an "E+0.../E-0..." marker
// (ECMA-376 scientific notation), the sign-display mode ("+" always shows
// a sign, "-" shows one only for negative exponents) and the minimum
// exponent digit count. nfp does not expose a dedicated scientific token
// type the teacher's renderer could lean on, so this scans the raw section
// text directly — the only hand-rolled piece of format parsing in this
// package, since ECMA-376 scientific markers are a literal "E"/"e" followed
// by a sign and a run of '0' digits, simple enough to detect without a
// general tokenizer.
var scientificMarkerRe = regexp.MustCompile(`[Ee]([+-])(0+)`)

func scientificSpec(raw string) (sign string, expDigits int, ok bool) {
	m := scientificMarkerRe.FindStringSubmatch(raw)
	if m == nil {
		return "", 0, false
	}
	return m[1], len(m[2]), true
}
