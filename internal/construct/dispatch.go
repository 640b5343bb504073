package construct

import (
	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/intrinsics"
	"github.com/roach88/fedcore/internal/ir"
	"github.com/roach88/fedcore/internal/placement"
	"github.com/roach88/fedcore/internal/types"
)

// callIntrinsic resolves operator through the catalog and calls it at the
// instantiated type.
func callIntrinsic(operator string, p *placement.Literal, fnType *types.FunctionType, arg ir.Node) (*ir.Call, error) {
	uri, err := intrinsics.URIFor(operator, p)
	if err != nil {
		return nil, err
	}
	return ir.NewCall(ir.NewIntrinsic(uri, fnType), arg)
}

func functionOf(op, role string, n ir.Node) (*types.FunctionType, error) {
	if n == nil {
		return nil, errkind.Typef(op, "%s is nil", role)
	}
	ft, ok := types.AsFunction(n.TypeSignature())
	if !ok {
		return nil, errkind.Typef(op, "%s must be a function, got %s of type %s", role, n, typeText(n.TypeSignature())).
			With(role, typeText(n.TypeSignature()))
	}
	return ft, nil
}

func federatedOf(op, role string, n ir.Node) (*types.FederatedType, error) {
	if n == nil {
		return nil, errkind.Typef(op, "%s is nil", role)
	}
	ft, ok := types.AsFederated(n.TypeSignature())
	if !ok {
		return nil, errkind.Typef(op, "%s must be federated, got %s of type %s", role, n, typeText(n.TypeSignature())).
			With(role, typeText(n.TypeSignature()))
	}
	return ft, nil
}

func federatedAt(op, role string, n ir.Node, p *placement.Literal) (*types.FederatedType, error) {
	ft, err := federatedOf(op, role, n)
	if err != nil {
		return nil, err
	}
	if ft.Placement() != p {
		return nil, errkind.Typef(op, "%s must be placed at %s, got %s", role, p, ft).
			With(role, ft.String())
	}
	return ft, nil
}

func sequenceOf(op, role string, n ir.Node) (*types.SequenceType, error) {
	if n == nil {
		return nil, errkind.Typef(op, "%s is nil", role)
	}
	st, ok := types.AsSequence(n.TypeSignature())
	if !ok {
		return nil, errkind.Typef(op, "%s must be a sequence, got %s of type %s", role, n, typeText(n.TypeSignature())).
			With(role, typeText(n.TypeSignature()))
	}
	return st, nil
}

// MapOrApply calls fn on every member of arg: federated_map for a value at
// clients, federated_apply for a value at the server. fn's parameter must
// be assignable from arg's member type; any other placement is a
// TYPE_ERROR.
func MapOrApply(fn, arg ir.Node) (*ir.Call, error) {
	const op = "map_or_apply"
	ft, err := functionOf(op, "fn", fn)
	if err != nil {
		return nil, err
	}
	at, err := federatedOf(op, "arg", arg)
	if err != nil {
		return nil, err
	}
	if err := types.CheckAssignableFrom(op, ft.Parameter(), at.Member()); err != nil {
		return nil, err
	}
	switch at.Placement() {
	case placement.Server:
		return FederatedApply(fn, arg)
	case placement.Clients:
		return FederatedMap(fn, arg)
	default:
		return nil, errkind.Typef(op, "unsupported placement %s", at.Placement()).
			With("placement", at.Placement().String())
	}
}

// FederatedMap builds federated_map(<fn,arg>) for arg at clients. The
// result is {U}@CLIENTS: mapping does not preserve all-equal.
func FederatedMap(fn, arg ir.Node) (*ir.Call, error) {
	const op = "federated_map"
	ft, err := functionOf(op, "fn", fn)
	if err != nil {
		return nil, err
	}
	if _, err := federatedAt(op, "arg", arg, placement.Clients); err != nil {
		return nil, err
	}
	param := types.Federated(ft.Parameter(), placement.Clients, false)
	result := types.Federated(ft.Result(), placement.Clients, false)
	return callIntrinsic(intrinsics.OpMap, placement.Clients,
		types.Function(types.UnnamedTuple(ft, param), result),
		ir.NewUnnamedTuple(fn, arg))
}

// FederatedApply builds federated_apply(<fn,arg>) for arg at the server.
// The result is U@SERVER.
func FederatedApply(fn, arg ir.Node) (*ir.Call, error) {
	const op = "federated_apply"
	ft, err := functionOf(op, "fn", fn)
	if err != nil {
		return nil, err
	}
	at, err := federatedAt(op, "arg", arg, placement.Server)
	if err != nil {
		return nil, err
	}
	param := types.Federated(ft.Parameter(), placement.Server, at.AllEqual())
	result := types.Federated(ft.Result(), placement.Server, true)
	return callIntrinsic(intrinsics.OpApply, placement.Server,
		types.Function(types.UnnamedTuple(ft, param), result),
		ir.NewUnnamedTuple(fn, arg))
}
