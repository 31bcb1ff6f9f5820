package core

import (
	"bufio"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
	"github.com/rs/zerolog/log"

	"pipdeps/internal/types"
)

// ParseRequirements reads manifest text into an ordered sequence of
// package specs, one per non-blank, non-comment line. Option lines
// (-r, -e, --index-url and friends) and malformed lines are skipped
// with a warning, never fatally: the manifest is still handed to pip
// wholesale, so a line this parser cannot interpret may still install.
func ParseRequirements(content string, source string) []types.PackageSpec {
	var specs []types.PackageSpec
	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "-") {
			log.Debug().
				Str("manifest", source).
				Int("line", lineNo).
				Msg("skipping pip option line")
			continue
		}
		line = stripInlineComment(line)
		spec, err := ParseRequirement(line, source)
		if err != nil {
			log.Warn().
				Str("manifest", source).
				Int("line", lineNo).
				Str("entry", line).
				Msg("skipping malformed requirement line")
			continue
		}
		if spec.Pinned() {
			if _, err := pep440.NewSpecifiers(toSpecifier(string(spec.Op), spec.Version)); err != nil {
				// Kept verbatim regardless; pip decides whether the pin
				// is usable.
				log.Warn().
					Str("manifest", source).
					Int("line", lineNo).
					Str("entry", line).
					Msg("requirement pin is not valid PEP 440")
			}
		}
		specs = append(specs, spec)
	}
	return specs
}

// stripInlineComment removes a trailing " #..." comment. A hash must be
// preceded by whitespace to count as a comment, matching pip's own
// requirement-file rules.
func stripInlineComment(line string) string {
	for idx := 0; idx < len(line); idx++ {
		if line[idx] != '#' {
			continue
		}
		if idx == 0 || line[idx-1] == ' ' || line[idx-1] == '\t' {
			return strings.TrimSpace(line[:idx])
		}
	}
	return line
}
