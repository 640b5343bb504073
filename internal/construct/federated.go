package construct

import (
	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/intrinsics"
	"github.com/roach88/fedcore/internal/ir"
	"github.com/roach88/fedcore/internal/placement"
	"github.com/roach88/fedcore/internal/types"
)

// FederatedBroadcast sends a server value to every client. The result is
// always all-equal at clients.
func FederatedBroadcast(value ir.Node) (*ir.Call, error) {
	vt, err := federatedAt("federated_broadcast", "value", value, placement.Server)
	if err != nil {
		return nil, err
	}
	result := types.Federated(vt.Member(), placement.Clients, true)
	return callIntrinsic(intrinsics.OpBroadcast, nil, types.Function(vt, result), value)
}

// FederatedCollect gathers client values into a sequence at the server.
func FederatedCollect(value ir.Node) (*ir.Call, error) {
	vt, err := federatedAt("federated_collect", "value", value, placement.Clients)
	if err != nil {
		return nil, err
	}
	param := types.Federated(vt.Member(), placement.Clients, false)
	result := types.Federated(types.Sequence(vt.Member()), placement.Server, true)
	return callIntrinsic(intrinsics.OpCollect, nil, types.Function(param, result), value)
}

// FederatedAggregate builds
//
//	federated_aggregate(<value,zero,accumulate,merge,report>)
//
// accumulate folds a member into a partial aggregate of zero's type, merge
// combines two partials, and report maps the final partial to the result.
// The result is report's result type at the server, all-equal.
func FederatedAggregate(value, zero, accumulate, merge, report ir.Node) (*ir.Call, error) {
	const op = "federated_aggregate"
	vt, err := federatedAt(op, "value", value, placement.Clients)
	if err != nil {
		return nil, err
	}
	if zero == nil {
		return nil, errkind.Typef(op, "zero is nil")
	}
	accT, err := functionOf(op, "accumulate", accumulate)
	if err != nil {
		return nil, err
	}
	mergeT, err := functionOf(op, "merge", merge)
	if err != nil {
		return nil, err
	}
	reportT, err := functionOf(op, "report", report)
	if err != nil {
		return nil, err
	}

	zt := zero.TypeSignature()
	checks := []struct{ target, source types.Type }{
		{accT.Parameter(), types.UnnamedTuple(zt, vt.Member())},
		{zt, accT.Result()},
		{mergeT.Parameter(), types.UnnamedTuple(zt, zt)},
		{zt, mergeT.Result()},
		{reportT.Parameter(), zt},
	}
	for _, c := range checks {
		if err := types.CheckAssignableFrom(op, c.target, c.source); err != nil {
			return nil, err
		}
	}

	param := types.UnnamedTuple(types.Federated(vt.Member(), placement.Clients, false), zt, accT, mergeT, reportT)
	result := types.Federated(reportT.Result(), placement.Server, true)
	return callIntrinsic(intrinsics.OpAggregate, nil, types.Function(param, result),
		ir.NewUnnamedTuple(value, zero, accumulate, merge, report))
}

// FederatedReduce folds client values into a server value with op, starting
// from zero. The result is op's result type at the server.
func FederatedReduce(value, zero, op ir.Node) (*ir.Call, error) {
	const name = "federated_reduce"
	vt, err := federatedAt(name, "value", value, placement.Clients)
	if err != nil {
		return nil, err
	}
	if zero == nil {
		return nil, errkind.Typef(name, "zero is nil")
	}
	opT, err := functionOf(name, "op", op)
	if err != nil {
		return nil, err
	}
	zt := zero.TypeSignature()
	if err := types.CheckAssignableFrom(name, opT.Parameter(), types.UnnamedTuple(zt, vt.Member())); err != nil {
		return nil, err
	}
	if err := types.CheckAssignableFrom(name, zt, opT.Result()); err != nil {
		return nil, err
	}

	param := types.UnnamedTuple(types.Federated(vt.Member(), placement.Clients, false), zt, opT)
	result := types.Federated(opT.Result(), placement.Server, true)
	return callIntrinsic(intrinsics.OpReduce, nil, types.Function(param, result),
		ir.NewUnnamedTuple(value, zero, op))
}

// FederatedSum adds client values at the server. The member type must be
// numeric or a tuple of numerics.
func FederatedSum(value ir.Node) (*ir.Call, error) {
	const op = "federated_sum"
	vt, err := federatedAt(op, "value", value, placement.Clients)
	if err != nil {
		return nil, err
	}
	if !types.IsSumCompatible(vt.Member()) {
		return nil, errkind.Typef(op, "member type %s cannot be summed", vt.Member()).
			With("type", vt.String())
	}
	param := types.Federated(vt.Member(), placement.Clients, false)
	result := types.Federated(vt.Member(), placement.Server, true)
	return callIntrinsic(intrinsics.OpSum, nil, types.Function(param, result), value)
}

// FederatedMean averages client values at the server. A nil weight builds
// federated_mean; otherwise federated_weighted_mean(<value,weight>) with a
// floating-point scalar weight at clients.
func FederatedMean(value, weight ir.Node) (*ir.Call, error) {
	const op = "federated_mean"
	vt, err := federatedAt(op, "value", value, placement.Clients)
	if err != nil {
		return nil, err
	}
	if !types.IsAverageCompatible(vt.Member()) {
		return nil, errkind.Typef(op, "member type %s cannot be averaged", vt.Member()).
			With("type", vt.String())
	}
	param := types.Federated(vt.Member(), placement.Clients, false)
	result := types.Federated(vt.Member(), placement.Server, true)

	if weight == nil {
		return callIntrinsic(intrinsics.OpMean, nil, types.Function(param, result), value)
	}

	wt, err := federatedAt(op, "weight", weight, placement.Clients)
	if err != nil {
		return nil, err
	}
	tt, ok := wt.Member().(*types.TensorType)
	if !ok || !tt.DType().IsFloating() || len(tt.Shape()) != 0 {
		return nil, errkind.Typef(op, "weight must be a floating-point scalar, got %s", wt.Member()).
			With("weight", wt.String())
	}
	wparam := types.Federated(wt.Member(), placement.Clients, false)
	return callIntrinsic(intrinsics.OpWeightedMean, nil,
		types.Function(types.UnnamedTuple(param, wparam), result),
		ir.NewUnnamedTuple(value, weight))
}

// FederatedValue places a non-federated value at p. The result is
// all-equal at p.
func FederatedValue(value ir.Node, p *placement.Literal) (*ir.Call, error) {
	const op = "federated_value"
	if value == nil {
		return nil, errkind.Typef(op, "value is nil")
	}
	if p == nil {
		return nil, errkind.Typef(op, "placement is nil")
	}
	vt := value.TypeSignature()
	if types.ContainsFederated(vt) {
		return nil, errkind.Typef(op, "value of type %s is already federated", typeText(vt)).
			With("type", typeText(vt))
	}
	return callIntrinsic(intrinsics.OpValue, p, types.Function(vt, types.Federated(vt, p, true)), value)
}
