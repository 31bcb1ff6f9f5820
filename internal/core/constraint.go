package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pipdeps/internal/shared"
	"pipdeps/internal/types"
)

// opTokens is the ordered list of constraint operators tried during
// parsing. Longer tokens must precede shorter ones to avoid false
// matches (e.g. "===" before "==" before "=").
var opTokens = []types.ConstraintOp{
	types.ConstraintOpArbEq,
	types.ConstraintOpEq,
	types.ConstraintOpGte,
	types.ConstraintOpLte,
	types.ConstraintOpCompat,
	types.ConstraintOpNe,
	types.ConstraintOpGt,
	types.ConstraintOpLt,
}

// ParseRequirement splits a raw requirement line ("name[extra]>=1.0 ;
// marker") into a PackageSpec. The raw text is preserved verbatim for
// pass-through to pip; only the name and the first constraint are
// interpreted. A bare name yields ConstraintOpNone.
func ParseRequirement(raw string, source string) (types.PackageSpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.PackageSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty requirement")
	}

	// Environment markers and extras are pip's business; drop them only
	// for name/constraint interpretation.
	head := raw
	if idx := strings.Index(head, ";"); idx >= 0 {
		head = head[:idx]
	}
	head = strings.TrimSpace(head)

	for _, op := range opTokens {
		if !strings.Contains(head, string(op)) {
			continue
		}
		parts := strings.SplitN(head, string(op), 2)
		name := stripExtras(strings.TrimSpace(parts[0]))
		version := strings.TrimSpace(parts[1])
		if name == "" || version == "" {
			return types.PackageSpec{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid requirement: %s", raw))
		}
		return types.PackageSpec{
			Name:    shared.NormalizePipName(name),
			Raw:     raw,
			Op:      op,
			Version: version,
			Source:  source,
		}, nil
	}

	name := stripExtras(head)
	if name == "" || strings.ContainsAny(name, " \t") {
		return types.PackageSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid requirement: %s", raw))
	}
	return types.PackageSpec{
		Name:   shared.NormalizePipName(name),
		Raw:    raw,
		Op:     types.ConstraintOpNone,
		Source: source,
	}, nil
}

// stripExtras removes an "[extra1,extra2]" suffix from a requirement
// name.
func stripExtras(name string) string {
	if idx := strings.Index(name, "["); idx >= 0 {
		return strings.TrimSpace(name[:idx])
	}
	return name
}
