package core

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// identifierPattern matches one Python identifier.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ExtractImports returns the top-level module names referenced by
// import statements in Python source, deduplicated in discovery order.
// Plain imports contribute their first dotted segment ("import x.y" ->
// "x"); from-imports contribute the package being imported from;
// relative imports reference no installable package and are skipped.
// Imports built dynamically (string concatenation, __import__) are not
// detected; that is a limitation of static scanning, not a defect.
func ExtractImports(content []byte, filename string) ([]string, error) {
	cleaned, err := stripStringsAndComments(content, filename)
	if err != nil {
		return nil, err
	}

	var names []string
	seen := map[string]struct{}{}
	add := func(name string) {
		if !identifierPattern.MatchString(name) {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, line := range logicalLines(cleaned) {
		statement := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(statement, "import "):
			for _, clause := range strings.Split(statement[len("import "):], ",") {
				target := strings.TrimSpace(clause)
				if target == "" {
					continue
				}
				// "import a.b as c" -> module path is the first field.
				fields := strings.Fields(target)
				add(firstSegment(fields[0]))
			}
		case strings.HasPrefix(statement, "from "):
			fields := strings.Fields(statement[len("from "):])
			if len(fields) == 0 {
				continue
			}
			module := fields[0]
			if strings.HasPrefix(module, ".") {
				// Relative import: refers to a local module.
				continue
			}
			add(firstSegment(module))
		}
	}
	return names, nil
}

// firstSegment returns the leading dotted-path segment of a module
// reference ("requests.auth" -> "requests").
func firstSegment(module string) string {
	if idx := strings.Index(module, "."); idx >= 0 {
		return module[:idx]
	}
	return module
}

// logicalLines splits cleaned source into statements, joining
// backslash-continued physical lines.
func logicalLines(cleaned string) []string {
	physical := strings.Split(cleaned, "\n")
	var logical []string
	var pending strings.Builder
	for _, line := range physical {
		trimmed := strings.TrimRight(line, " \t")
		if strings.HasSuffix(trimmed, "\\") {
			pending.WriteString(strings.TrimSuffix(trimmed, "\\"))
			pending.WriteString(" ")
			continue
		}
		if pending.Len() > 0 {
			pending.WriteString(line)
			logical = append(logical, pending.String())
			pending.Reset()
			continue
		}
		logical = append(logical, line)
	}
	if pending.Len() > 0 {
		logical = append(logical, pending.String())
	}
	return logical
}

// stripStringsAndComments blanks out string literal interiors and
// comments so import-looking text inside them is never matched. It
// rejects content that cannot be Python source: non-UTF-8 bytes, NUL
// bytes, or an unterminated triple-quoted string at EOF.
func stripStringsAndComments(content []byte, filename string) (string, error) {
	if !utf8.Valid(content) {
		return "", parseError(filename, "content is not valid UTF-8 text")
	}
	source := string(content)
	if strings.ContainsRune(source, 0) {
		return "", parseError(filename, "content contains NUL bytes")
	}

	var out strings.Builder
	out.Grow(len(source))

	const (
		stateCode = iota
		stateShortString
		stateLongString
		stateComment
	)
	state := stateCode
	var quote byte

	runes := []byte(source)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch state {
		case stateCode:
			switch {
			case ch == '#':
				state = stateComment
				out.WriteByte(' ')
			case ch == '\'' || ch == '"':
				if i+2 < len(runes) && runes[i+1] == ch && runes[i+2] == ch {
					state = stateLongString
					quote = ch
					out.WriteString("   ")
					i += 2
					continue
				}
				state = stateShortString
				quote = ch
				out.WriteByte(' ')
			default:
				out.WriteByte(ch)
			}
		case stateShortString:
			switch {
			case ch == '\\' && i+1 < len(runes):
				out.WriteString("  ")
				i++
			case ch == quote:
				state = stateCode
				out.WriteByte(' ')
			case ch == '\n':
				// Unterminated short string; recover at end of line the
				// way a tolerant parser would.
				state = stateCode
				out.WriteByte('\n')
			default:
				out.WriteByte(' ')
			}
		case stateLongString:
			switch {
			case ch == '\\' && i+1 < len(runes):
				out.WriteString("  ")
				i++
			case ch == quote && i+2 < len(runes) && runes[i+1] == quote && runes[i+2] == quote:
				state = stateCode
				out.WriteString("   ")
				i += 2
			case ch == '\n':
				out.WriteByte('\n')
			default:
				out.WriteByte(' ')
			}
		case stateComment:
			if ch == '\n' {
				state = stateCode
				out.WriteByte('\n')
			} else {
				out.WriteByte(' ')
			}
		}
	}

	if state == stateLongString {
		return "", parseError(filename, "unterminated triple-quoted string")
	}
	return out.String(), nil
}

func parseError(filename string, reason string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("cannot parse %s as Python source: %s", filename, reason))
}
