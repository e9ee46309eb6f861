// Package path defines the two-variant selector for the logical payloads of
// a capsule. It is a leaf package so that the engine and the capsule codec
// can share the type without importing each other.
//
// The string labels returned by Label are HMAC domain-separation constants
// and form part of the wire contract; they must never change.
package path

// Path identifies which of the two logical payloads an operation targets.
// The zero value is invalid; callers must pick a variant explicitly.
type Path int

const (
	// True selects the payload revealed to the intended reader.
	True Path = iota + 1

	// False selects the decoy payload revealed under duress.
	False
)

// Valid reports whether p is one of the two defined variants.
func (p Path) Valid() bool {
	return p == True || p == False
}

// Label returns the ASCII domain-separation label bound into HMAC
// derivations.
func (p Path) Label() string {
	switch p {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "invalid"
	}
}

// Other returns the opposite variant.
func (p Path) Other() Path {
	if p == True {
		return False
	}
	return True
}

// String returns a human-readable name for the path.
func (p Path) String() string {
	switch p {
	case True:
		return "Path(true)"
	case False:
		return "Path(false)"
	default:
		return "Path(invalid)"
	}
}
