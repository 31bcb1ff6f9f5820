package core

import (
	"fmt"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
)

// PinSatisfied reports whether an installed version satisfies the
// spec's constraint. Name-only specs are always satisfied by any
// installed version. Unparseable pins or versions count as not
// satisfied so an install is attempted rather than silently skipped;
// pip stays the authority on the final answer.
func PinSatisfied(op string, pinned string, installed string) bool {
	if op == "" || pinned == "" {
		return true
	}
	spec, err := pep440.NewSpecifiers(toSpecifier(op, pinned))
	if err != nil {
		return false
	}
	version, err := pep440.Parse(installed)
	if err != nil {
		return false
	}
	return spec.Check(version)
}

// toSpecifier renders an operator and version as a PEP 440 specifier
// string (e.g. ">= 1.0", "~= 2.3").
func toSpecifier(op string, version string) string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", op, version))
}
