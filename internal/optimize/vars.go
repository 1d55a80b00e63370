package optimize

// VarKind distinguishes the two decision variable families.
type VarKind int

const (
	// VarSelect is a binary selection variable for a single offer.
	VarSelect VarKind = iota
	// VarActive is a binary activation variable for a single vendor.
	VarActive
)

// String returns the string representation of the kind.
func (k VarKind) String() string {
	switch k {
	case VarSelect:
		return "select"
	case VarActive:
		return "active"
	default:
		return "unknown"
	}
}

// VarKey is the typed identity of a decision variable: a select
// variable references an offer, an active variable references a vendor.
// Keys map to stable numeric handles inside a Program; no variable
// identity is ever encoded in strings.
type VarKey struct {
	Kind VarKind
	Ref  string
}

// Sense is the comparison sense of a linear constraint.
type Sense int

const (
	// SenseEQ constrains the linear term to equal the bound.
	SenseEQ Sense = iota
	// SenseLE constrains the linear term to be at most the bound.
	SenseLE
)

// Term is one coefficient of a linear constraint, addressed by variable
// handle.
type Term struct {
	Var   int
	Coeff float64
}

// Constraint is a sparse linear constraint over binary variables.
type Constraint struct {
	Terms []Term
	Sense Sense
	RHS   float64
}
