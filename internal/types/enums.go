package types

type TargetKind string

const (
	TargetKindPackage  TargetKind = "package"
	TargetKindManifest TargetKind = "manifest"
)

type FailureCause string

const (
	FailureCauseNone           FailureCause = ""
	FailureCauseBuildToolchain FailureCause = "missing-build-toolchain"
	FailureCauseSystemLibrary  FailureCause = "missing-system-library"
	FailureCauseNetwork        FailureCause = "network-error"
	FailureCausePermission     FailureCause = "permission-error"
	FailureCauseUnknown        FailureCause = "unknown"
)

type ConstraintOp string

const (
	ConstraintOpNone   ConstraintOp = ""
	ConstraintOpEq     ConstraintOp = "=="
	ConstraintOpArbEq  ConstraintOp = "==="
	ConstraintOpNe     ConstraintOp = "!="
	ConstraintOpCompat ConstraintOp = "~="
	ConstraintOpGte    ConstraintOp = ">="
	ConstraintOpLte    ConstraintOp = "<="
	ConstraintOpGt     ConstraintOp = ">"
	ConstraintOpLt     ConstraintOp = "<"
)
