package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/types"
)

func TestValidate_LambdaScope(t *testing.T) {
	x := NewReference("x", types.MustParse("<int32,bool>"))
	sel, err := NewSelectionIndex(x, 0)
	require.NoError(t, err)

	assert.NoError(t, Validate(NewLambda("x", x.TypeSignature(), sel)))
}

func TestValidate_UnboundReference(t *testing.T) {
	err := Validate(NewReference("y", types.Tensor(types.Int32)))
	require.Error(t, err)
	assert.True(t, errkind.IsValueError(err))
	assert.Contains(t, err.Error(), "unbound reference y")
	assert.Contains(t, err.Error(), "path=$")
}

func TestValidate_Env(t *testing.T) {
	y := NewReference("y", types.Tensor(types.Int32))
	assert.NoError(t, Validate(y, y))
}

func TestValidate_ReferenceTypeMismatch(t *testing.T) {
	body := NewReference("x", types.Tensor(types.Bool))
	err := Validate(NewLambda("x", types.Tensor(types.Int32), body))
	require.Error(t, err)
	assert.True(t, errkind.IsTypeError(err))
	assert.Contains(t, err.Error(), "path=$.body")
}

func TestValidate_BlockOrdering(t *testing.T) {
	i32 := types.Tensor(types.Int32)
	// b refers to a, which is bound earlier.
	ok := NewBlock([]Binding{
		{Name: "a", Value: NewData("1", i32)},
		{Name: "b", Value: NewReference("a", i32)},
	}, NewReference("b", i32))
	assert.NoError(t, Validate(ok))

	// a refers to b, which is bound later.
	bad := NewBlock([]Binding{
		{Name: "a", Value: NewReference("b", i32)},
		{Name: "b", Value: NewData("1", i32)},
	}, NewReference("a", i32))
	err := Validate(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unbound reference b")
}

func TestValidate_Shadowing(t *testing.T) {
	i32 := types.Tensor(types.Int32)
	b := types.Tensor(types.Bool)
	inner := NewLambda("x", b, NewReference("x", b))
	outer := NewLambda("x", i32, NewTuple(Named("", inner), Named("", NewReference("x", i32))))

	assert.NoError(t, Validate(outer))
}

func TestValidate_CollectsAll(t *testing.T) {
	i32 := types.Tensor(types.Int32)
	tup := NewUnnamedTuple(NewReference("p", i32), NewReference("q", i32))

	err := Validate(tup)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
}
