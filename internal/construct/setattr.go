package construct

import (
	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/ir"
	"github.com/roach88/fedcore/internal/types"
)

// NamedTupleSetAttrLambda returns a function over tupleType that reproduces
// its argument with every element named name replaced by value:
//
//	(let value_comp_placeholder=v in (lambda_arg -> <a=value_comp_placeholder,lambda_arg[1]>))
//
// The binding encloses the lambda so value is evaluated once. Other
// elements are re-selected by position and keep their names. A name the
// tuple does not have is an ATTRIBUTE_ERROR; a value whose type is not
// assignable to the element's declared type is a TYPE_ERROR.
func NamedTupleSetAttrLambda(tupleType types.Type, name string, value ir.Node) (*ir.Block, error) {
	const op = "setattr"
	nt, ok := types.AsNamedTuple(tupleType)
	if !ok {
		return nil, errkind.Typef(op, "expected a named tuple type, got %s", typeText(tupleType)).
			With("type", typeText(tupleType))
	}
	if value == nil {
		return nil, errkind.Typef(op, "value is nil")
	}
	// Unnamed elements never match, so an empty name is always absent.
	if name == "" || nt.IndexOf(name) < 0 {
		return nil, errkind.Attributef(op, "there is no attribute %s in %s; assigning to a nonexistent attribute is not allowed", name, nt).
			With("name", name).
			With("type", nt.String())
	}

	placeholder := ir.NewReference("value_comp_placeholder", value.TypeSignature())
	arg := ir.NewReference("lambda_arg", nt)

	elems := make([]ir.Element, nt.Len())
	for i, e := range nt.Elements() {
		if e.Name == name {
			if !types.IsAssignableFrom(e.Type, value.TypeSignature()) {
				return nil, errkind.Typef(op, "cannot set element %s of type %s with incompatible type %s",
					name, e.Type, typeText(value.TypeSignature())).
					With("element", name).
					With("declared", e.Type.String()).
					With("offered", typeText(value.TypeSignature()))
			}
			elems[i] = ir.Named(name, placeholder)
			continue
		}
		sel, err := ir.NewSelectionIndex(arg, i)
		if err != nil {
			return nil, err
		}
		elems[i] = ir.Named(e.Name, sel)
	}

	fn := ir.NewLambda(arg.Name(), nt, ir.NewTuple(elems...))
	return ir.NewBlock([]ir.Binding{{Name: placeholder.Name(), Value: value}}, fn), nil
}

// FederatedSetAttrCall sets name to value in every member of comp. The
// result has comp's member type at comp's placement.
func FederatedSetAttrCall(comp ir.Node, name string, value ir.Node) (*ir.Call, error) {
	_, nt, err := federatedTuple("setattr", comp)
	if err != nil {
		return nil, err
	}
	fn, err := NamedTupleSetAttrLambda(nt, name, value)
	if err != nil {
		return nil, err
	}
	return MapOrApply(fn, comp)
}
