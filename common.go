package treevec

import (
	"fmt"
)

// StructuralError reports a tree that violates the binary/labeling
// invariants: an internal node without exactly two children, inconsistent
// parent links, more than one root, a cycle, or leaf labels that are not
// exactly {0, ..., n-1}.
type StructuralError struct {
	Reason string
}

func (e StructuralError) Error() string {
	return fmt.Sprintf("treevec: invalid tree: %s", e.Reason)
}

// InvalidEncodingError reports the first vector entry that falls outside its
// valid range, or a structurally impossible vector length.
type InvalidEncodingError struct {
	Index    int
	Value    int
	Boundary int
}

func (e InvalidEncodingError) Error() string {
	return fmt.Sprintf("treevec: invalid encoding: entry %d is %d, valid range [0, %d]",
		e.Index, e.Value, e.Boundary)
}

// UnknownLeafError reports an ancestry or distance query against a leaf
// label the tree does not contain.
type UnknownLeafError struct {
	Label int
}

func (e UnknownLeafError) Error() string {
	return fmt.Sprintf("treevec: unknown leaf %d", e.Label)
}

// InvalidOperationError reports a structural edit with a bad argument, such
// as an out-of-range slot or a removal of a label that is not present.
type InvalidOperationError struct {
	Op     string
	Reason string
}

func (e InvalidOperationError) Error() string {
	return fmt.Sprintf("treevec: invalid %s: %s", e.Op, e.Reason)
}

// ParseError reports malformed Newick or vector text, with the byte offset
// at which parsing failed.
type ParseError struct {
	Pos int
	Msg string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("treevec: parse error at %d: %s", e.Pos, e.Msg)
}

func dupVector(in Vector) Vector {
	out := make(Vector, len(in))
	copy(out, in)
	return out
}
