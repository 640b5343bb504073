package ir

import (
	"strconv"
	"strings"

	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/types"
)

// Kind identifies a node's variant.
type Kind int

const (
	ReferenceKind Kind = iota
	SelectionKind
	TupleKind
	LambdaKind
	BlockKind
	CallKind
	IntrinsicKind
	DataKind
)

var kindNames = [...]string{
	ReferenceKind: "reference",
	SelectionKind: "selection",
	TupleKind:     "tuple",
	LambdaKind:    "lambda",
	BlockKind:     "block",
	CallKind:      "call",
	IntrinsicKind: "intrinsic",
	DataKind:      "data",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is an immutable IR fragment.
type Node interface {
	Kind() Kind
	TypeSignature() types.Type
	String() string
	node() // Sealed
}

// Reference is a use of a bound name.
type Reference struct {
	name string
	typ  types.Type
}

// NewReference creates a reference to name with the given type.
func NewReference(name string, t types.Type) *Reference {
	return &Reference{name: name, typ: t}
}

func (*Reference) node() {}

// Kind implements Node.
func (*Reference) Kind() Kind { return ReferenceKind }

// TypeSignature implements Node.
func (r *Reference) TypeSignature() types.Type { return r.typ }

// Name returns the referenced name.
func (r *Reference) Name() string { return r.name }

func (r *Reference) String() string { return r.name }

// Selection projects one element of a tuple-typed source.
type Selection struct {
	source Node
	index  int
	name   string
	typ    types.Type
}

// NewSelectionIndex selects the element at position index.
func NewSelectionIndex(source Node, index int) (*Selection, error) {
	nt, err := selectionSource(source)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= nt.Len() {
		return nil, errkind.Valuef("selection", "index %d out of range for %s", index, nt).
			With("index", strconv.Itoa(index)).
			With("type", nt.String())
	}
	return &Selection{source: source, index: index, typ: nt.Element(index).Type}, nil
}

// NewSelectionName selects the first element named name.
func NewSelectionName(source Node, name string) (*Selection, error) {
	nt, err := selectionSource(source)
	if err != nil {
		return nil, err
	}
	i := nt.IndexOf(name)
	if i < 0 {
		return nil, errkind.Valuef("selection", "no element of name %s in %s", name, nt).
			With("name", name).
			With("type", nt.String())
	}
	return &Selection{source: source, index: i, name: name, typ: nt.Element(i).Type}, nil
}

func selectionSource(source Node) (*types.NamedTupleType, error) {
	if source == nil {
		return nil, errkind.Typef("selection", "source is nil")
	}
	nt, ok := types.AsNamedTuple(source.TypeSignature())
	if !ok {
		return nil, errkind.Typef("selection", "cannot select from non-tuple type %s", typeText(source.TypeSignature())).
			With("type", typeText(source.TypeSignature()))
	}
	return nt, nil
}

func (*Selection) node() {}

// Kind implements Node.
func (*Selection) Kind() Kind { return SelectionKind }

// TypeSignature implements Node.
func (s *Selection) TypeSignature() types.Type { return s.typ }

// Source returns the selected-from node.
func (s *Selection) Source() Node { return s.source }

// Index returns the selected position. For a selection by name it is the
// position the name resolved to.
func (s *Selection) Index() int { return s.index }

// Name returns the selected name, or "" for a selection by position.
func (s *Selection) Name() string { return s.name }

// ByName reports whether the selection was made by name.
func (s *Selection) ByName() bool { return s.name != "" }

func (s *Selection) String() string {
	if s.name != "" {
		return s.source.String() + "." + s.name
	}
	return s.source.String() + "[" + strconv.Itoa(s.index) + "]"
}

// Element is one position of a Tuple. An empty Name means unnamed.
type Element struct {
	Name  string
	Value Node
}

// Named is a shorthand for Element.
func Named(name string, value Node) Element {
	return Element{Name: name, Value: value}
}

// Tuple is an ordered composite of optionally named values.
type Tuple struct {
	elements []Element
	typ      *types.NamedTupleType
}

// NewTuple creates a tuple node; its type lists the element types in order.
func NewTuple(elements ...Element) *Tuple {
	elems := append([]Element(nil), elements...)
	ts := make([]types.Element, len(elems))
	for i, e := range elems {
		ts[i] = types.E(e.Name, e.Value.TypeSignature())
	}
	return &Tuple{elements: elems, typ: types.NamedTuple(ts...)}
}

// NewUnnamedTuple creates a tuple node with no element names.
func NewUnnamedTuple(values ...Node) *Tuple {
	elems := make([]Element, len(values))
	for i, v := range values {
		elems[i] = Element{Value: v}
	}
	return NewTuple(elems...)
}

func (*Tuple) node() {}

// Kind implements Node.
func (*Tuple) Kind() Kind { return TupleKind }

// TypeSignature implements Node.
func (t *Tuple) TypeSignature() types.Type { return t.typ }

// Len returns the number of elements.
func (t *Tuple) Len() int { return len(t.elements) }

// Elements returns a copy of the elements.
func (t *Tuple) Elements() []Element { return append([]Element(nil), t.elements...) }

func (t *Tuple) String() string {
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
		b.WriteString(e.Value.String())
	}
	b.WriteByte('>')
	return b.String()
}

// Lambda is a single-parameter function. The parameter name is scoped to
// the body.
type Lambda struct {
	param     string
	paramType types.Type
	body      Node
	typ       *types.FunctionType
}

// NewLambda creates a lambda; its type is (paramType -> body type).
func NewLambda(param string, paramType types.Type, body Node) *Lambda {
	return &Lambda{
		param:     param,
		paramType: paramType,
		body:      body,
		typ:       types.Function(paramType, body.TypeSignature()),
	}
}

func (*Lambda) node() {}

// Kind implements Node.
func (*Lambda) Kind() Kind { return LambdaKind }

// TypeSignature implements Node.
func (l *Lambda) TypeSignature() types.Type { return l.typ }

// Parameter returns the parameter name.
func (l *Lambda) Parameter() string { return l.param }

// ParameterType returns the parameter type.
func (l *Lambda) ParameterType() types.Type { return l.paramType }

// Body returns the body.
func (l *Lambda) Body() Node { return l.body }

func (l *Lambda) String() string {
	return "(" + l.param + " -> " + l.body.String() + ")"
}

// Binding is one let-binding of a Block.
type Binding struct {
	Name  string
	Value Node
}

// Block evaluates its bindings once each, in order, then its result. Each
// binding is visible to later bindings and to the result.
type Block struct {
	bindings []Binding
	result   Node
}

// NewBlock creates a block; its type is the result's type.
func NewBlock(bindings []Binding, result Node) *Block {
	return &Block{bindings: append([]Binding(nil), bindings...), result: result}
}

func (*Block) node() {}

// Kind implements Node.
func (*Block) Kind() Kind { return BlockKind }

// TypeSignature implements Node.
func (b *Block) TypeSignature() types.Type { return b.result.TypeSignature() }

// Bindings returns a copy of the bindings.
func (b *Block) Bindings() []Binding { return append([]Binding(nil), b.bindings...) }

// Result returns the result node.
func (b *Block) Result() Node { return b.result }

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("(let ")
	for i, bd := range b.bindings {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(bd.Name)
		sb.WriteByte('=')
		sb.WriteString(bd.Value.String())
	}
	sb.WriteString(" in ")
	sb.WriteString(b.result.String())
	sb.WriteByte(')')
	return sb.String()
}

// Call applies a function to an argument.
type Call struct {
	fn  Node
	arg Node
	typ types.Type
}

// NewCall checks that fn has a function type whose parameter is assignable
// from arg's type and returns the call. A function without a parameter
// takes a nil arg.
func NewCall(fn, arg Node) (*Call, error) {
	if fn == nil {
		return nil, errkind.Typef("call", "function is nil")
	}
	ft, ok := types.AsFunction(fn.TypeSignature())
	if !ok {
		return nil, errkind.Typef("call", "cannot call %s of non-function type %s", fn, typeText(fn.TypeSignature())).
			With("type", typeText(fn.TypeSignature()))
	}
	switch {
	case ft.Parameter() == nil && arg != nil:
		return nil, errkind.Typef("call", "function %s takes no argument", fn).
			With("type", ft.String())
	case ft.Parameter() != nil && arg == nil:
		return nil, errkind.Typef("call", "function %s requires an argument of type %s", fn, ft.Parameter()).
			With("type", ft.String())
	case arg != nil:
		if err := types.CheckAssignableFrom("call", ft.Parameter(), arg.TypeSignature()); err != nil {
			return nil, err
		}
	}
	return &Call{fn: fn, arg: arg, typ: ft.Result()}, nil
}

func (*Call) node() {}

// Kind implements Node.
func (*Call) Kind() Kind { return CallKind }

// TypeSignature implements Node.
func (c *Call) TypeSignature() types.Type { return c.typ }

// Function returns the called node.
func (c *Call) Function() Node { return c.fn }

// Argument returns the argument, or nil.
func (c *Call) Argument() Node { return c.arg }

func (c *Call) String() string {
	if c.arg == nil {
		return c.fn.String() + "()"
	}
	return c.fn.String() + "(" + c.arg.String() + ")"
}

// Intrinsic references a catalog operator instantiated at a concrete type.
type Intrinsic struct {
	uri string
	typ types.Type
}

// NewIntrinsic creates an intrinsic node.
func NewIntrinsic(uri string, t types.Type) *Intrinsic {
	return &Intrinsic{uri: uri, typ: t}
}

func (*Intrinsic) node() {}

// Kind implements Node.
func (*Intrinsic) Kind() Kind { return IntrinsicKind }

// TypeSignature implements Node.
func (i *Intrinsic) TypeSignature() types.Type { return i.typ }

// URI returns the operator URI.
func (i *Intrinsic) URI() string { return i.uri }

func (i *Intrinsic) String() string { return i.uri }

// Data is an opaque external value.
type Data struct {
	label string
	typ   types.Type
}

// NewData creates a data node.
func NewData(label string, t types.Type) *Data {
	return &Data{label: label, typ: t}
}

func (*Data) node() {}

// Kind implements Node.
func (*Data) Kind() Kind { return DataKind }

// TypeSignature implements Node.
func (d *Data) TypeSignature() types.Type { return d.typ }

// Label returns the data label.
func (d *Data) Label() string { return d.label }

func (d *Data) String() string { return d.label }

// Children returns the direct children of n in evaluation order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Selection:
		return []Node{n.source}
	case *Tuple:
		out := make([]Node, len(n.elements))
		for i, e := range n.elements {
			out[i] = e.Value
		}
		return out
	case *Lambda:
		return []Node{n.body}
	case *Block:
		out := make([]Node, 0, len(n.bindings)+1)
		for _, b := range n.bindings {
			out = append(out, b.Value)
		}
		return append(out, n.result)
	case *Call:
		if n.arg == nil {
			return []Node{n.fn}
		}
		return []Node{n.fn, n.arg}
	default:
		return nil
	}
}

// FreeNames returns the names of the references in n that no enclosing
// Lambda parameter or Block binding within n binds.
func FreeNames(n Node) map[string]bool {
	free := map[string]bool{}
	collectFree(n, map[string]int{}, free)
	return free
}

func collectFree(n Node, bound map[string]int, free map[string]bool) {
	switch n := n.(type) {
	case nil:
	case *Reference:
		if bound[n.name] == 0 {
			free[n.name] = true
		}
	case *Lambda:
		bound[n.param]++
		collectFree(n.body, bound, free)
		bound[n.param]--
	case *Block:
		for _, b := range n.bindings {
			collectFree(b.Value, bound, free)
			bound[b.Name]++
		}
		collectFree(n.result, bound, free)
		for _, b := range n.bindings {
			bound[b.Name]--
		}
	default:
		for _, c := range Children(n) {
			collectFree(c, bound, free)
		}
	}
}

// Same reports whether a and b have identical canonical text and equal
// type signatures.
func Same(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String() && types.Equal(a.TypeSignature(), b.TypeSignature())
}

func typeText(t types.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
