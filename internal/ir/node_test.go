package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/placement"
	"github.com/roach88/fedcore/internal/types"
)

func i32() types.Type { return types.Tensor(types.Int32) }

func TestSelection_ByIndex(t *testing.T) {
	x := NewReference("x", types.MustParse("<a=int32,b=bool>"))

	sel, err := NewSelectionIndex(x, 1)
	require.NoError(t, err)
	assert.Equal(t, "x[1]", sel.String())
	assert.Equal(t, "bool", sel.TypeSignature().String())
	assert.False(t, sel.ByName())
	assert.Equal(t, SelectionKind, sel.Kind())
}

func TestSelection_ByName(t *testing.T) {
	x := NewReference("x", types.MustParse("<a=int32,b=bool>"))

	sel, err := NewSelectionName(x, "b")
	require.NoError(t, err)
	assert.Equal(t, "x.b", sel.String())
	assert.Equal(t, 1, sel.Index())
	assert.True(t, sel.ByName())
}

func TestSelection_Errors(t *testing.T) {
	x := NewReference("x", types.MustParse("<a=int32,b=bool>"))

	_, err := NewSelectionIndex(x, 2)
	assert.True(t, errkind.IsValueError(err))
	_, err = NewSelectionIndex(x, -1)
	assert.True(t, errkind.IsValueError(err))

	_, err = NewSelectionName(x, "c")
	require.Error(t, err)
	assert.True(t, errkind.IsValueError(err))
	assert.Contains(t, err.Error(), "no element of name c")

	_, err = NewSelectionIndex(NewReference("y", i32()), 0)
	assert.True(t, errkind.IsTypeError(err))
}

func TestTuple(t *testing.T) {
	tup := NewTuple(Named("a", NewData("1", i32())), Named("", NewReference("y", types.Tensor(types.Bool))))

	assert.Equal(t, "<a=1,y>", tup.String())
	assert.Equal(t, "<a=int32,bool>", tup.TypeSignature().String())
	assert.Equal(t, 2, tup.Len())

	assert.Equal(t, "<>", NewTuple().String())
	assert.Equal(t, "<x,y>", NewUnnamedTuple(NewReference("x", i32()), NewReference("y", i32())).String())
}

func TestLambda(t *testing.T) {
	x := NewReference("x", types.MustParse("<int32,bool>"))
	sel, err := NewSelectionIndex(x, 0)
	require.NoError(t, err)

	fn := NewLambda("x", x.TypeSignature(), sel)
	assert.Equal(t, "(x -> x[0])", fn.String())
	assert.Equal(t, "(<int32,bool> -> int32)", fn.TypeSignature().String())
	assert.Equal(t, "x", fn.Parameter())
}

func TestBlock(t *testing.T) {
	v := NewData("v", i32())
	ref := NewReference("a", i32())
	blk := NewBlock([]Binding{{Name: "a", Value: v}, {Name: "b", Value: ref}}, NewUnnamedTuple(ref, NewReference("b", i32())))

	assert.Equal(t, "(let a=v,b=a in <a,b>)", blk.String())
	assert.Equal(t, "<int32,int32>", blk.TypeSignature().String())
	assert.Len(t, blk.Bindings(), 2)
}

func TestCall(t *testing.T) {
	fn := NewIntrinsic("federated_sum", types.MustParse("({int32}@CLIENTS -> int32@SERVER)"))
	arg := NewReference("v", types.MustParse("{int32}@CLIENTS"))

	call, err := NewCall(fn, arg)
	require.NoError(t, err)
	assert.Equal(t, "federated_sum(v)", call.String())
	assert.Equal(t, "int32@SERVER", call.TypeSignature().String())
}

func TestCall_NoArgument(t *testing.T) {
	fn := NewData("f", types.Function(nil, i32()))

	call, err := NewCall(fn, nil)
	require.NoError(t, err)
	assert.Equal(t, "f()", call.String())

	_, err = NewCall(fn, NewData("v", i32()))
	assert.True(t, errkind.IsTypeError(err))
}

func TestCall_Errors(t *testing.T) {
	_, err := NewCall(NewData("f", i32()), NewData("v", i32()))
	assert.True(t, errkind.IsTypeError(err))

	fn := NewData("f", types.Function(i32(), i32()))
	_, err = NewCall(fn, nil)
	assert.True(t, errkind.IsTypeError(err))

	_, err = NewCall(fn, NewData("v", types.Tensor(types.Bool)))
	require.Error(t, err)
	var kerr *errkind.Error
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, "int32", kerr.Details["target"])
	assert.Equal(t, "bool", kerr.Details["source"])
}

func TestCall_AllEqualAssignability(t *testing.T) {
	fn := NewData("f", types.Function(types.Federated(i32(), placement.Clients, false), i32()))
	_, err := NewCall(fn, NewData("v", types.Federated(i32(), placement.Clients, true)))
	assert.NoError(t, err)
}

func TestChildren(t *testing.T) {
	x := NewReference("x", types.MustParse("<int32>"))
	sel, _ := NewSelectionIndex(x, 0)

	assert.Equal(t, []Node{x}, Children(sel))
	assert.Nil(t, Children(x))
	assert.Len(t, Children(NewTuple(Named("a", x), Named("b", x))), 2)
}

func TestFreeNames(t *testing.T) {
	x := NewReference("x", i32())
	y := NewReference("y", i32())

	assert.Equal(t, map[string]bool{"x": true}, FreeNames(x))
	assert.Empty(t, FreeNames(NewLambda("x", i32(), x)))
	assert.Equal(t, map[string]bool{"y": true}, FreeNames(NewLambda("x", i32(), NewUnnamedTuple(x, y))))

	// A binding scopes later bindings and the result, not its own value.
	blk := NewBlock([]Binding{{Name: "x", Value: x}, {Name: "y", Value: x}}, y)
	assert.Equal(t, map[string]bool{"x": true}, FreeNames(blk))
	assert.Empty(t, FreeNames(NewData("d", i32())))
}

func TestSame(t *testing.T) {
	a := NewReference("x", i32())
	assert.True(t, Same(a, NewReference("x", i32())))
	assert.False(t, Same(a, NewReference("x", types.Tensor(types.Bool))))
	assert.False(t, Same(a, NewReference("y", i32())))
	assert.True(t, Same(nil, nil))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "block", BlockKind.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
