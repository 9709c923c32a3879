package pattern

import "github.com/mosaicdata/fta/semtype"

// Numeric is one rung of the numeric promotion lattice. The streaming
// profiler fuses L1/L2 shape evidence through this lattice rather than
// through the base semtype.Type, since "Long" and "Signed Long" are the same
// semtype.Long but must not collapse until promotion decides otherwise.
type Numeric int

const (
	NumUnknown Numeric = iota
	NumLong
	NumSignedLong
	NumDouble
	NumSignedDouble
	NumDoubleExp
	NumSignedDoubleExp
)

// ToSemantic maps a lattice rung back to the externally visible (type, qualifier) pair.
func (n Numeric) ToSemantic() (t semtype.Type, q semtype.Qualifier) {
	switch n {
	case NumLong:
		return semtype.Long, semtype.QualifierNone
	case NumSignedLong:
		return semtype.Long, semtype.SIGNED
	case NumDouble, NumDoubleExp:
		return semtype.Double, semtype.QualifierNone
	case NumSignedDouble, NumSignedDoubleExp:
		return semtype.Double, semtype.SIGNED
	}
	return semtype.Unknown, semtype.QualifierNone
}

// promotionTable is the fixed join table over the lattice, embedded as a
// compile-time map keyed by the (left, right) pair — never built by string
// concatenation at runtime.
var promotionTable = map[[2]Numeric]Numeric{
	{NumLong, NumLong}:                 NumLong,
	{NumLong, NumSignedLong}:           NumSignedLong,
	{NumSignedLong, NumLong}:           NumSignedLong,
	{NumSignedLong, NumSignedLong}:     NumSignedLong,
	{NumLong, NumDouble}:               NumDouble,
	{NumDouble, NumLong}:               NumDouble,
	{NumSignedLong, NumDouble}:         NumSignedDouble,
	{NumDouble, NumSignedLong}:         NumSignedDouble,
	{NumLong, NumSignedDouble}:         NumSignedDouble,
	{NumSignedDouble, NumLong}:         NumSignedDouble,
	{NumSignedLong, NumSignedDouble}:   NumSignedDouble,
	{NumSignedDouble, NumSignedLong}:   NumSignedDouble,
	{NumDouble, NumDouble}:             NumDouble,
	{NumDouble, NumSignedDouble}:       NumSignedDouble,
	{NumSignedDouble, NumDouble}:       NumSignedDouble,
	{NumSignedDouble, NumSignedDouble}: NumSignedDouble,
}

// Promote returns the join of a and b in the numeric lattice. Any pairing
// involving a Double-with-Exponent rung yields a Double-with-Exponent rung,
// signed iff either side was signed — handled here rather than in the table
// so the table stays small and the exponent rule stays explicit.
func Promote(a, b Numeric) Numeric {
	if a == NumUnknown {
		return b
	}
	if b == NumUnknown {
		return a
	}
	if a == b {
		return a
	}
	if isExp(a) || isExp(b) {
		if isSigned(a) || isSigned(b) {
			return NumSignedDoubleExp
		}
		return NumDoubleExp
	}
	if v, ok := promotionTable[[2]Numeric{a, b}]; ok {
		return v
	}
	if v, ok := promotionTable[[2]Numeric{b, a}]; ok {
		return v
	}
	return NumDouble
}

func isExp(n Numeric) bool    { return n == NumDoubleExp || n == NumSignedDoubleExp }
func isSigned(n Numeric) bool { return n == NumSignedLong || n == NumSignedDouble || n == NumSignedDoubleExp }
