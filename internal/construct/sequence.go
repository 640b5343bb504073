package construct

import (
	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/intrinsics"
	"github.com/roach88/fedcore/internal/ir"
	"github.com/roach88/fedcore/internal/types"
)

// SequenceMap applies fn to every element of seq. The result is U* for
// fn of type (T -> U).
func SequenceMap(fn, seq ir.Node) (*ir.Call, error) {
	const op = intrinsics.SequenceMap
	ft, err := functionOf(op, "fn", fn)
	if err != nil {
		return nil, err
	}
	st, err := sequenceOf(op, "seq", seq)
	if err != nil {
		return nil, err
	}
	if err := types.CheckAssignableFrom(op, ft.Parameter(), st.Element()); err != nil {
		return nil, err
	}
	param := types.UnnamedTuple(ft, types.Sequence(ft.Parameter()))
	return callIntrinsic(intrinsics.OpSequenceMap, nil, types.Function(param, types.Sequence(ft.Result())),
		ir.NewUnnamedTuple(fn, seq))
}

// SequenceReduce folds seq into one value with op, starting from zero.
// The result type is op's result type.
func SequenceReduce(seq, zero, op ir.Node) (*ir.Call, error) {
	const name = intrinsics.SequenceReduce
	st, err := sequenceOf(name, "seq", seq)
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
	if err := types.CheckAssignableFrom(name, opT.Parameter(), types.UnnamedTuple(zt, st.Element())); err != nil {
		return nil, err
	}
	if err := types.CheckAssignableFrom(name, zt, opT.Result()); err != nil {
		return nil, err
	}
	param := types.UnnamedTuple(st, zt, opT)
	return callIntrinsic(intrinsics.OpSequenceReduce, nil, types.Function(param, opT.Result()),
		ir.NewUnnamedTuple(seq, zero, op))
}

// SequenceSum adds the elements of seq. The result type is the element
// type, which must be numeric or a tuple of numerics.
func SequenceSum(seq ir.Node) (*ir.Call, error) {
	const op = intrinsics.SequenceSum
	st, err := sequenceOf(op, "seq", seq)
	if err != nil {
		return nil, err
	}
	if !types.IsSumCompatible(st.Element()) {
		return nil, errkind.Typef(op, "element type %s cannot be summed", st.Element()).
			With("type", st.String())
	}
	return callIntrinsic(intrinsics.OpSequenceSum, nil, types.Function(st, st.Element()), seq)
}
