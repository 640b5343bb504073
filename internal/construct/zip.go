package construct

import (
	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/intrinsics"
	"github.com/roach88/fedcore/internal/ir"
	"github.com/roach88/fedcore/internal/placement"
	"github.com/roach88/fedcore/internal/types"
)

// zipAllEqual is the all-equal bit of zip inputs and outputs per placement.
var zipAllEqual = map[*placement.Literal]bool{
	placement.Clients: false,
	placement.Server:  true,
}

// FederatedZipOfTwoTuple zips a tuple of two federated values sharing one
// placement into a single federated pair, dropping element names:
//
//	federated_zip_at_clients(<comp[0],comp[1]>)
//
// Both inputs are treated as carrying the placement's all-equal bit (false
// at clients, true at the server), which is also the bit of the result.
func FederatedZipOfTwoTuple(comp ir.Node) (*ir.Call, error) {
	const op = "federated_zip"
	if comp == nil {
		return nil, errkind.Typef(op, "argument is nil")
	}
	nt, ok := types.AsNamedTuple(comp.TypeSignature())
	if !ok {
		return nil, errkind.Typef(op, "argument must be a tuple of federated values, got %s", typeText(comp.TypeSignature())).
			With("type", typeText(comp.TypeSignature()))
	}

	var p *placement.Literal
	elems := nt.Elements()
	members := make([]types.Type, len(elems))
	for i, e := range elems {
		ft, ok := types.AsFederated(e.Type)
		if !ok {
			return nil, errkind.Typef(op, "element %d has non-federated type %s", i, typeText(e.Type)).
				With("index", itoa(i)).
				With("type", nt.String())
		}
		if p == nil {
			p = ft.Placement()
		} else if ft.Placement() != p {
			return nil, errkind.Typef(op, "elements must share one placement; element %d is placed at %s, which conflicts with %s", i, ft.Placement(), p).
				With("index", itoa(i)).
				With("type", nt.String())
		}
		members[i] = ft.Member()
	}
	allEqual, supported := zipAllEqual[p]
	if p != nil && !supported {
		return nil, errkind.Typef(op, "elements must be placed at SERVER or CLIENTS, got %s", p).
			With("placement", p.String())
	}
	if len(elems) != 2 {
		return nil, errkind.Valuef(op, "argument must be a 2-tuple, not a %d-tuple", len(elems)).
			With("expected", "2").
			With("actual", itoa(len(elems)))
	}

	adjusted := make([]types.Type, 2)
	for i, m := range members {
		adjusted[i] = types.Federated(m, p, allEqual)
	}
	result := types.Federated(types.UnnamedTuple(members...), p, allEqual)

	first, err := ir.NewSelectionIndex(comp, 0)
	if err != nil {
		return nil, err
	}
	second, err := ir.NewSelectionIndex(comp, 1)
	if err != nil {
		return nil, err
	}
	return callIntrinsic(intrinsics.OpZip, p,
		types.Function(types.UnnamedTuple(adjusted...), result),
		ir.NewUnnamedTuple(first, second))
}
