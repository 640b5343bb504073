package construct

import (
	"strconv"

	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/ir"
	"github.com/roach88/fedcore/internal/types"
)

// federatedTuple checks that comp is a federated value whose member is a
// named tuple.
func federatedTuple(op string, comp ir.Node) (*types.FederatedType, *types.NamedTupleType, error) {
	if comp == nil {
		return nil, nil, errkind.Typef(op, "federated value is nil")
	}
	ft, ok := types.AsFederated(comp.TypeSignature())
	if !ok {
		return nil, nil, errkind.Typef(op, "expected a federated value, got %s of type %s", comp, typeText(comp.TypeSignature())).
			With("type", typeText(comp.TypeSignature()))
	}
	nt, ok := types.AsNamedTuple(ft.Member())
	if !ok {
		return nil, nil, errkind.Typef(op, "expected a federated named tuple, got member type %s", typeText(ft.Member())).
			With("type", ft.String())
	}
	return ft, nt, nil
}

// FederatedGetItemComp returns the lambda (x -> ...) that applies key to a
// value of comp's member type. An Index yields x[i]; a Range yields a tuple
// of the retained positions in slice order, each keeping its name.
func FederatedGetItemComp(comp ir.Node, key Key) (*ir.Lambda, error) {
	const op = "federated_getitem"
	_, nt, err := federatedTuple(op, comp)
	if err != nil {
		return nil, err
	}
	x := ir.NewReference("x", nt)

	var body ir.Node
	switch k := key.(type) {
	case Index:
		sel, err := ir.NewSelectionIndex(x, int(k))
		if err != nil {
			return nil, err
		}
		body = sel
	case Range:
		positions, err := k.Indices(nt.Len())
		if err != nil {
			return nil, err
		}
		elems := make([]ir.Element, 0, len(positions))
		for _, i := range positions {
			sel, err := ir.NewSelectionIndex(x, i)
			if err != nil {
				return nil, err
			}
			elems = append(elems, ir.Named(nt.Element(i).Name, sel))
		}
		body = ir.NewTuple(elems...)
	default:
		return nil, errkind.Typef(op, "key must be an Index or a Range, got %T", key)
	}
	return ir.NewLambda(x.Name(), nt, body), nil
}

// FederatedGetItemCall applies key to every member of comp, mapping at
// clients and applying at the server.
func FederatedGetItemCall(comp ir.Node, key Key) (*ir.Call, error) {
	fn, err := FederatedGetItemComp(comp, key)
	if err != nil {
		return nil, err
	}
	return MapOrApply(fn, comp)
}

// FederatedGetAttrComp returns the lambda (x -> x.name) over comp's member
// type. A name the member does not have is a VALUE_ERROR.
func FederatedGetAttrComp(comp ir.Node, name string) (*ir.Lambda, error) {
	const op = "federated_getattr"
	_, nt, err := federatedTuple(op, comp)
	if err != nil {
		return nil, err
	}
	if nt.IndexOf(name) < 0 {
		return nil, errkind.Valuef(op, "the federated value %s has no element of name %s", comp, name).
			With("name", name).
			With("type", nt.String())
	}
	x := ir.NewReference("x", nt)
	sel, err := ir.NewSelectionName(x, name)
	if err != nil {
		return nil, err
	}
	return ir.NewLambda(x.Name(), nt, sel), nil
}

// FederatedGetAttrCall selects name from every member of comp.
func FederatedGetAttrCall(comp ir.Node, name string) (*ir.Call, error) {
	fn, err := FederatedGetAttrComp(comp, name)
	if err != nil {
		return nil, err
	}
	return MapOrApply(fn, comp)
}

func typeText(t types.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func itoa(i int) string { return strconv.Itoa(i) }
