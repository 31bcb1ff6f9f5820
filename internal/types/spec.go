package types

// PackageSpec identifies one installable distribution. Name is the
// PEP 503 normalized name and is never empty. Raw preserves the
// requirement exactly as written (extras, pin, environment markers) for
// verbatim pass-through to pip.
type PackageSpec struct {
	Name    string
	Raw     string
	Op      ConstraintOp
	Version string
	Source  string
}

// Pinned reports whether the spec carries a version constraint.
func (s PackageSpec) Pinned() bool {
	return s.Op != ConstraintOpNone && s.Version != ""
}

// InstallTarget returns the argument handed to pip: the raw requirement
// when one was written, otherwise the normalized name.
func (s PackageSpec) InstallTarget() string {
	if s.Raw != "" {
		return s.Raw
	}
	return s.Name
}

// Inputs is the set of supported files discovered under the caller's
// path arguments, plus whatever could not be used.
type Inputs struct {
	Scripts   []string
	Manifests []string
	Invalid   []string
}

// PipResult captures one pip invocation. ExitCode is -1 when the
// process never produced one (spawn failure or kill on timeout).
type PipResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
}
