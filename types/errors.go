package types

import "errors"

// Every failure reported by the analysis core wraps exactly one of these.
// Match with errors.Is; context is added with fmt.Errorf("...: %w", ErrX).
var (
	// ErrInvalidParameter is returned for non-physical inputs such as
	// non-positive moduli or thickness, or malformed caller storage.
	ErrInvalidParameter = errors.New("femsolids: invalid parameter")

	// ErrDegenerateElement signals a non-positive Jacobian determinant.
	ErrDegenerateElement = errors.New("femsolids: degenerate element")

	ErrUnsupportedMaterial = errors.New("femsolids: unsupported material")
	ErrUnsupportedElement  = errors.New("femsolids: unsupported element")

	// ErrMissingTopology is returned when refinement is requested on a grid
	// whose edge topology was never built.
	ErrMissingTopology = errors.New("femsolids: missing topology")

	ErrInvalidMarking     = errors.New("femsolids: invalid refinement marking")
	ErrUnknownFaceset     = errors.New("femsolids: unknown face set")
	ErrIncompatibleMeshes = errors.New("femsolids: incompatible meshes")

	// ErrSingularSystem and ErrSolverDiverged come from the global solve.
	ErrSingularSystem = errors.New("femsolids: singular system")
	ErrSolverDiverged = errors.New("femsolids: solver did not converge")
)
