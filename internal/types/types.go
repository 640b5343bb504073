// Package types provides the type model for federated computations.
//
// Type is a sealed interface: only TensorType, NamedTupleType,
// FederatedType, FunctionType and SequenceType implement it, which keeps
// type switches over it exhaustive. All types are immutable values; the
// constructors copy the slices they are given.
//
// Each type has a canonical text form returned by String():
//
//	int32             tensor (scalar)
//	float32[2,?]      tensor with a partially known shape
//	<a=int32,bool>    named tuple, unnamed elements print bare
//	{int32}@CLIENTS   federated, not all-equal
//	int32@SERVER      federated, all-equal
//	(int32 -> bool)   function
//	int32*            sequence
//
// Parse accepts exactly this form.
package types

import (
	"strconv"
	"strings"

	"github.com/roach88/fedcore/internal/placement"
)

// Kind identifies a type's variant.
type Kind int

const (
	TensorKind Kind = iota
	NamedTupleKind
	FederatedKind
	FunctionKind
	SequenceKind
)

var kindNames = [...]string{
	TensorKind:     "tensor",
	NamedTupleKind: "named_tuple",
	FederatedKind:  "federated",
	FunctionKind:   "function",
	SequenceKind:   "sequence",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Type is a type descriptor.
type Type interface {
	Kind() Kind
	String() string
	typeNode() // Sealed
}

// UnknownDim marks a tensor dimension whose size is not known statically.
const UnknownDim = -1

// TensorType is a scalar or array of a primitive element kind.
type TensorType struct {
	dtype DType
	shape []int
}

// Tensor returns a scalar tensor type, or an array type when dims are given.
// Use UnknownDim for dimensions of unknown size.
func Tensor(d DType, dims ...int) *TensorType {
	var shape []int
	if len(dims) > 0 {
		shape = append([]int(nil), dims...)
	}
	return &TensorType{dtype: d, shape: shape}
}

func (*TensorType) typeNode() {}

// Kind implements Type.
func (*TensorType) Kind() Kind { return TensorKind }

// DType returns the element kind.
func (t *TensorType) DType() DType { return t.dtype }

// Shape returns a copy of the dimensions; nil for a scalar.
func (t *TensorType) Shape() []int {
	if t.shape == nil {
		return nil
	}
	return append([]int(nil), t.shape...)
}

// String implements Type.
func (t *TensorType) String() string {
	if len(t.shape) == 0 {
		return t.dtype.String()
	}
	var b strings.Builder
	b.WriteString(t.dtype.String())
	b.WriteByte('[')
	for i, d := range t.shape {
		if i > 0 {
			b.WriteByte(',')
		}
		if d == UnknownDim {
			b.WriteByte('?')
		} else {
			b.WriteString(strconv.Itoa(d))
		}
	}
	b.WriteByte(']')
	return b.String()
}

// Element is one position of a named tuple. An empty Name means the
// element is unnamed.
type Element struct {
	Name string
	Type Type
}

// NamedTupleType is an ordered sequence of optionally named elements.
// Position is always significant. Names may repeat; lookups by name use
// the first match.
type NamedTupleType struct {
	elements []Element
}

// NamedTuple creates a named tuple type from its elements.
func NamedTuple(elements ...Element) *NamedTupleType {
	return &NamedTupleType{elements: append([]Element(nil), elements...)}
}

// UnnamedTuple creates a named tuple type whose elements carry no names.
func UnnamedTuple(ts ...Type) *NamedTupleType {
	elements := make([]Element, len(ts))
	for i, t := range ts {
		elements[i] = Element{Type: t}
	}
	return &NamedTupleType{elements: elements}
}

// E is a shorthand for Element.
func E(name string, t Type) Element {
	return Element{Name: name, Type: t}
}

func (*NamedTupleType) typeNode() {}

// Kind implements Type.
func (*NamedTupleType) Kind() Kind { return NamedTupleKind }

// Len returns the number of elements.
func (t *NamedTupleType) Len() int { return len(t.elements) }

// Element returns the element at position i.
func (t *NamedTupleType) Element(i int) Element { return t.elements[i] }

// Elements returns a copy of the elements in order.
func (t *NamedTupleType) Elements() []Element {
	return append([]Element(nil), t.elements...)
}

// Names returns the element names in order; unnamed positions are "".
func (t *NamedTupleType) Names() []string {
	names := make([]string, len(t.elements))
	for i, e := range t.elements {
		names[i] = e.Name
	}
	return names
}

// IndexOf returns the position of the first element named name, or -1.
func (t *NamedTupleType) IndexOf(name string) int {
	if name == "" {
		return -1
	}
	for i, e := range t.elements {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// String implements Type.
func (t *NamedTupleType) String() string {
	var b strings.Builder
	b.WriteByte('<')
	for i, e := range t.elements {
		if i > 0 {
			b.WriteByte(',')
		}
		if e.Name != "" {
			b.WriteString(e.Name)
			b.WriteByte('=')
		}
		b.WriteString(typeString(e.Type))
	}
	b.WriteByte('>')
	return b.String()
}

// FederatedType is a value placed at a placement role. AllEqual records
// whether every location's copy is guaranteed identical.
type FederatedType struct {
	member    Type
	placement *placement.Literal
	allEqual  bool
}

// Federated creates a federated type with an explicit all-equal bit.
func Federated(member Type, p *placement.Literal, allEqual bool) *FederatedType {
	return &FederatedType{member: member, placement: p, allEqual: allEqual}
}

// FederatedDefault creates a federated type whose all-equal bit is the
// placement's default (true at the server, false at clients).
func FederatedDefault(member Type, p *placement.Literal) *FederatedType {
	return Federated(member, p, p.DefaultAllEqual())
}

func (*FederatedType) typeNode() {}

// Kind implements Type.
func (*FederatedType) Kind() Kind { return FederatedKind }

// Member returns the type of a single location's copy.
func (t *FederatedType) Member() Type { return t.member }

// Placement returns the placement literal.
func (t *FederatedType) Placement() *placement.Literal { return t.placement }

// AllEqual returns the all-equal bit.
func (t *FederatedType) AllEqual() bool { return t.allEqual }

// String implements Type.
func (t *FederatedType) String() string {
	if t.allEqual {
		return typeString(t.member) + "@" + t.placement.String()
	}
	return "{" + typeString(t.member) + "}@" + t.placement.String()
}

// FunctionType is a single-parameter function. A nil parameter denotes a
// function taking no argument.
type FunctionType struct {
	parameter Type
	result    Type
}

// Function creates a function type.
func Function(parameter, result Type) *FunctionType {
	return &FunctionType{parameter: parameter, result: result}
}

func (*FunctionType) typeNode() {}

// Kind implements Type.
func (*FunctionType) Kind() Kind { return FunctionKind }

// Parameter returns the parameter type, or nil.
func (t *FunctionType) Parameter() Type { return t.parameter }

// Result returns the result type.
func (t *FunctionType) Result() Type { return t.result }

// String implements Type.
func (t *FunctionType) String() string {
	if t.parameter == nil {
		return "( -> " + typeString(t.result) + ")"
	}
	return "(" + typeString(t.parameter) + " -> " + typeString(t.result) + ")"
}

// SequenceType is a sequence of elements of one type.
type SequenceType struct {
	element Type
}

// Sequence creates a sequence type.
func Sequence(element Type) *SequenceType {
	return &SequenceType{element: element}
}

func (*SequenceType) typeNode() {}

// Kind implements Type.
func (*SequenceType) Kind() Kind { return SequenceKind }

// Element returns the element type.
func (t *SequenceType) Element() Type { return t.element }

// String implements Type.
func (t *SequenceType) String() string {
	return typeString(t.element) + "*"
}

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// AsNamedTuple returns t as a named tuple type, if it is one.
func AsNamedTuple(t Type) (*NamedTupleType, bool) {
	nt, ok := t.(*NamedTupleType)
	return nt, ok
}

// AsFederated returns t as a federated type, if it is one.
func AsFederated(t Type) (*FederatedType, bool) {
	ft, ok := t.(*FederatedType)
	return ft, ok
}

// AsFunction returns t as a function type, if it is one.
func AsFunction(t Type) (*FunctionType, bool) {
	ft, ok := t.(*FunctionType)
	return ft, ok
}

// AsSequence returns t as a sequence type, if it is one.
func AsSequence(t Type) (*SequenceType, bool) {
	st, ok := t.(*SequenceType)
	return st, ok
}

// ContainsFederated reports whether t or any type nested in it is federated.
func ContainsFederated(t Type) bool {
	switch t := t.(type) {
	case *FederatedType:
		return true
	case *NamedTupleType:
		for _, e := range t.elements {
			if ContainsFederated(e.Type) {
				return true
			}
		}
		return false
	case *FunctionType:
		return (t.parameter != nil && ContainsFederated(t.parameter)) || ContainsFederated(t.result)
	case *SequenceType:
		return ContainsFederated(t.element)
	default:
		return false
	}
}
