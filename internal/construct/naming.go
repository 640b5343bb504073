package construct

import (
	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/ir"
	"github.com/roach88/fedcore/internal/types"
)

// NamingFunction returns (x -> <n0=x[0],n1=x[1],...>) over tupleType,
// attaching names[i] to position i whatever name it had before. An empty
// entry leaves the position unnamed. The length of names must equal the
// number of elements.
func NamingFunction(tupleType types.Type, names []string) (*ir.Lambda, error) {
	const op = "naming_function"
	nt, ok := types.AsNamedTuple(tupleType)
	if !ok {
		return nil, errkind.Typef(op, "expected a named tuple type, got %s", typeText(tupleType)).
			With("type", typeText(tupleType))
	}
	if len(names) != nt.Len() {
		return nil, errkind.Valuef(op, "names has %d elements and the tuple type %s has %d", len(names), nt, nt.Len()).
			With("names", itoa(len(names))).
			With("elements", itoa(nt.Len()))
	}
	x := ir.NewReference("x", nt)
	elems := make([]ir.Element, len(names))
	for i, name := range names {
		sel, err := ir.NewSelectionIndex(x, i)
		if err != nil {
			return nil, err
		}
		elems[i] = ir.Named(name, sel)
	}
	return ir.NewLambda(x.Name(), nt, ir.NewTuple(elems...)), nil
}

// NamedTupleAppend returns base extended with one element:
//
//	(let append_base=base in <a=append_base[0],...,name=value>)
//
// base is bound once and every existing element is re-selected by position
// with its name. An empty name appends an unnamed element. When value
// refers to a free append_base, the binding takes a numbered suffix instead.
func NamedTupleAppend(base ir.Node, name string, value ir.Node) (*ir.Block, error) {
	const op = "named_tuple_append"
	if base == nil {
		return nil, errkind.Typef(op, "base is nil")
	}
	if value == nil {
		return nil, errkind.Typef(op, "value is nil")
	}
	nt, ok := types.AsNamedTuple(base.TypeSignature())
	if !ok {
		return nil, errkind.Typef(op, "base must be a tuple, got %s of type %s", base, typeText(base.TypeSignature())).
			With("type", typeText(base.TypeSignature()))
	}
	ref := ir.NewReference(freshName("append_base", ir.FreeNames(value)), nt)
	elems := make([]ir.Element, 0, nt.Len()+1)
	for i, e := range nt.Elements() {
		sel, err := ir.NewSelectionIndex(ref, i)
		if err != nil {
			return nil, err
		}
		elems = append(elems, ir.Named(e.Name, sel))
	}
	elems = append(elems, ir.Named(name, value))
	return ir.NewBlock([]ir.Binding{{Name: ref.Name(), Value: base}}, ir.NewTuple(elems...)), nil
}

// freshName returns base, or base_1, base_2, ... when taken.
func freshName(base string, taken map[string]bool) string {
	name := base
	for i := 1; taken[name]; i++ {
		name = base + "_" + itoa(i)
	}
	return name
}
