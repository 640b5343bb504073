package construct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/ir"
	"github.com/roach88/fedcore/internal/placement"
	"github.com/roach88/fedcore/internal/testutil"
	"github.com/roach88/fedcore/internal/types"
)

func selectA(t *testing.T) *ir.Lambda {
	t.Helper()
	x := testutil.Ref(t, "x", "<a=int32,b=bool>")
	sel, err := ir.NewSelectionName(x, "a")
	require.NoError(t, err)
	return ir.NewLambda("x", x.TypeSignature(), sel)
}

func TestMapOrApply_Server(t *testing.T) {
	comp := testutil.Ref(t, "test", "<a=int32,b=bool>@SERVER")

	call, err := MapOrApply(selectA(t), comp)
	require.NoError(t, err)
	assert.Equal(t, "federated_apply(<(x -> x.a),test>)", call.String())
	assert.Equal(t, "int32@SERVER", call.TypeSignature().String())
}

func TestMapOrApply_Clients(t *testing.T) {
	comp := testutil.Ref(t, "test", "<a=int32,b=bool>@CLIENTS")

	call, err := MapOrApply(selectA(t), comp)
	require.NoError(t, err)
	assert.Equal(t, "federated_map(<(x -> x.a),test>)", call.String())
	assert.Equal(t, "{int32}@CLIENTS", call.TypeSignature().String())
}

func TestMapOrApply_IncompatibleParameter(t *testing.T) {
	fn := testutil.Identity(t, "x", "int32")
	arg := testutil.Ref(t, "y", "{float32}@CLIENTS")

	_, err := MapOrApply(fn, arg)
	require.Error(t, err)
	assert.True(t, errkind.IsTypeError(err))
}

func TestMapOrApply_UnsupportedPlacement(t *testing.T) {
	mock := placement.New("MOCK", "mock", false, "mock")
	arg := ir.NewReference("y", types.Federated(types.Tensor(types.Int32), mock, false))

	_, err := MapOrApply(testutil.Identity(t, "x", "int32"), arg)
	require.Error(t, err)
	assert.True(t, errkind.IsTypeError(err))
	assert.Contains(t, err.Error(), "unsupported placement MOCK")
}

func TestMapOrApply_BadKinds(t *testing.T) {
	arg := testutil.Ref(t, "y", "{int32}@CLIENTS")

	_, err := MapOrApply(testutil.Ref(t, "f", "int32"), arg)
	assert.True(t, errkind.IsTypeError(err))

	_, err = MapOrApply(testutil.Identity(t, "x", "int32"), testutil.Ref(t, "y", "int32"))
	assert.True(t, errkind.IsTypeError(err))

	_, err = MapOrApply(nil, arg)
	assert.True(t, errkind.IsTypeError(err))
}

func TestFederatedMap(t *testing.T) {
	fn := testutil.Identity(t, "x", "int32")
	arg := testutil.Data(t, "y", "{int32}@CLIENTS")

	call, err := FederatedMap(fn, arg)
	require.NoError(t, err)
	assert.Equal(t, "federated_map(<(x -> x),y>)", call.String())
	assert.Equal(t, "{int32}@CLIENTS", call.TypeSignature().String())
	assert.Equal(t, "(<(int32 -> int32),{int32}@CLIENTS> -> {int32}@CLIENTS)", call.Function().TypeSignature().String())
}

func TestFederatedMap_Errors(t *testing.T) {
	fn := testutil.Identity(t, "x", "int32")

	_, err := FederatedMap(nil, testutil.Data(t, "y", "{int32}@CLIENTS"))
	assert.True(t, errkind.IsTypeError(err), "nil fn")

	_, err = FederatedMap(testutil.Ref(t, "x", "int32"), testutil.Data(t, "y", "{bool}@CLIENTS"))
	assert.True(t, errkind.IsTypeError(err), "non-function fn")

	_, err = FederatedMap(fn, nil)
	assert.True(t, errkind.IsTypeError(err), "nil arg")

	_, err = FederatedMap(fn, testutil.Data(t, "y", "int32"))
	assert.True(t, errkind.IsTypeError(err), "non-federated arg")

	_, err = FederatedMap(fn, testutil.Data(t, "y", "int32@SERVER"))
	assert.True(t, errkind.IsTypeError(err), "server arg")

	_, err = FederatedMap(fn, testutil.Data(t, "y", "{bool}@CLIENTS"))
	assert.True(t, errkind.IsTypeError(err), "member mismatch")
}

func TestFederatedApply(t *testing.T) {
	fn := testutil.Identity(t, "x", "int32")

	call, err := FederatedApply(fn, testutil.Data(t, "y", "int32@SERVER"))
	require.NoError(t, err)
	assert.Equal(t, "federated_apply(<(x -> x),y>)", call.String())
	assert.Equal(t, "int32@SERVER", call.TypeSignature().String())

	_, err = FederatedApply(fn, testutil.Data(t, "y", "{int32}@CLIENTS"))
	assert.True(t, errkind.IsTypeError(err))
}
