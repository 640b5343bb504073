package construct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/intrinsics"
	"github.com/roach88/fedcore/internal/ir"
	"github.com/roach88/fedcore/internal/testutil"
	"github.com/roach88/fedcore/internal/types"
)

func TestNamedTupleSetAttrLambda_ReplacesSingleElement(t *testing.T) {
	value := testutil.Data(t, "x", "int32")

	blk, err := NamedTupleSetAttrLambda(testutil.Type(t, "<a=int32,b=bool>"), "a", value)
	require.NoError(t, err)
	assert.Equal(t,
		"(let value_comp_placeholder=x in (lambda_arg -> <a=value_comp_placeholder,b=lambda_arg[1]>))",
		blk.String())
}

func TestNamedTupleSetAttrLambda_SkipsUnnamedElement(t *testing.T) {
	value := testutil.Data(t, "x", "int32")

	blk, err := NamedTupleSetAttrLambda(testutil.Type(t, "<a=int32,float32,b=bool>"), "a", value)
	require.NoError(t, err)
	assert.Equal(t,
		"(let value_comp_placeholder=x in (lambda_arg -> <a=value_comp_placeholder,lambda_arg[1],b=lambda_arg[2]>))",
		blk.String())
}

func TestNamedTupleSetAttrLambda_PreservesSignature(t *testing.T) {
	literals := []string{"<a=int32,float32,b=bool>", "<a=int32,b=bool>", "<x=float32,a=int32>"}
	for _, lit := range literals {
		t.Run(lit, func(t *testing.T) {
			blk, err := NamedTupleSetAttrLambda(testutil.Type(t, lit), "a", testutil.Data(t, "x", "int32"))
			require.NoError(t, err)

			ft, ok := types.AsFunction(blk.TypeSignature())
			require.True(t, ok)
			assert.True(t, types.AreEquivalent(ft.Parameter(), ft.Result()))
			assert.Equal(t, lit, ft.Result().String())
			assert.NoError(t, ir.Validate(blk))
		})
	}
}

func TestNamedTupleSetAttrLambda_ReplacesEveryMatch(t *testing.T) {
	blk, err := NamedTupleSetAttrLambda(testutil.Type(t, "<a=int32,b=bool,a=int32>"), "a", testutil.Data(t, "x", "int32"))
	require.NoError(t, err)
	assert.Equal(t,
		"(let value_comp_placeholder=x in (lambda_arg -> <a=value_comp_placeholder,b=lambda_arg[1],a=value_comp_placeholder>))",
		blk.String())
}

func TestNamedTupleSetAttrLambda_UnknownNameIsAttributeError(t *testing.T) {
	_, err := NamedTupleSetAttrLambda(testutil.Type(t, "<a=int32,b=bool>"), "c", testutil.Data(t, "x", "int32"))
	require.Error(t, err)
	assert.True(t, errkind.IsAttributeError(err))
	assert.False(t, errkind.IsTypeError(err))
}

func TestNamedTupleSetAttrLambda_EmptyNameIsAttributeError(t *testing.T) {
	for _, lit := range []string{"<a=int32,b=bool>", "<a=int32,float32>", "<int32>"} {
		t.Run(lit, func(t *testing.T) {
			_, err := NamedTupleSetAttrLambda(testutil.Type(t, lit), "", testutil.Data(t, "x", "int32"))
			require.Error(t, err)
			assert.True(t, errkind.IsAttributeError(err))
			assert.False(t, errkind.IsTypeError(err))
		})
	}
}

func TestNamedTupleSetAttrLambda_IncompatibleType(t *testing.T) {
	_, err := NamedTupleSetAttrLambda(testutil.Type(t, "<a=int32,b=bool>"), "b", testutil.Data(t, "x", "int32"))
	require.Error(t, err)
	assert.True(t, errkind.IsTypeError(err))
	assert.Contains(t, err.Error(), "incompatible type")

	var kerr *errkind.Error
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, "b", kerr.Details["element"])
	assert.Equal(t, "bool", kerr.Details["declared"])
	assert.Equal(t, "int32", kerr.Details["offered"])
}

func TestNamedTupleSetAttrLambda_BadArguments(t *testing.T) {
	value := testutil.Data(t, "x", "int32")

	_, err := NamedTupleSetAttrLambda(testutil.Type(t, "{<a=int32>}@CLIENTS"), "a", value)
	assert.True(t, errkind.IsTypeError(err), "federated type")


	_, err = NamedTupleSetAttrLambda(testutil.Type(t, "<a=int32>"), "a", nil)
	assert.True(t, errkind.IsTypeError(err), "nil value")
}

func TestFederatedSetAttrCall(t *testing.T) {
	tests := []struct {
		literal  string
		wantURI  string
		wantRepr string
	}{
		{
			"{<a=int32,float32,b=bool>}@CLIENTS",
			intrinsics.FederatedMap,
			"federated_map(<(let value_comp_placeholder=x in (lambda_arg -> <a=value_comp_placeholder,lambda_arg[1],b=lambda_arg[2]>)),federated_comp>)",
		},
		{
			"<a=int32,float32,b=bool>@SERVER",
			intrinsics.FederatedApply,
			"federated_apply(<(let value_comp_placeholder=x in (lambda_arg -> <a=value_comp_placeholder,lambda_arg[1],b=lambda_arg[2]>)),federated_comp>)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.wantURI, func(t *testing.T) {
			comp := testutil.Data(t, "federated_comp", tt.literal)
			call, err := FederatedSetAttrCall(comp, "a", testutil.Data(t, "x", "int32"))
			require.NoError(t, err)

			intr, ok := call.Function().(*ir.Intrinsic)
			require.True(t, ok)
			assert.Equal(t, tt.wantURI, intr.URI())
			assert.Equal(t, tt.wantRepr, call.String())
			assert.True(t, types.AreEquivalent(call.TypeSignature(), comp.TypeSignature()))
			assert.NoError(t, ir.Validate(call))
		})
	}
}

func TestFederatedSetAttrCall_Errors(t *testing.T) {
	value := testutil.Data(t, "x", "int32")

	_, err := FederatedSetAttrCall(nil, "a", value)
	assert.True(t, errkind.IsTypeError(err))

	_, err = FederatedSetAttrCall(testutil.Data(t, "data", "<a=int32,float32,b=bool>"), "a", value)
	assert.True(t, errkind.IsTypeError(err))

	comp := testutil.Data(t, "data", "{<a=int32,float32,b=bool>}@CLIENTS")
	_, err = FederatedSetAttrCall(comp, "", value)
	assert.True(t, errkind.IsAttributeError(err))

	_, err = FederatedSetAttrCall(comp, "a", nil)
	assert.True(t, errkind.IsTypeError(err))

	_, err = FederatedSetAttrCall(comp, "z", value)
	assert.True(t, errkind.IsAttributeError(err))
}

func TestFederatedSetAttrCall_ClientsAllEqualInputLosesBit(t *testing.T) {
	comp := testutil.Data(t, "data", "<a=int32,b=bool>@CLIENTS")
	call, err := FederatedSetAttrCall(comp, "a", testutil.Data(t, "x", "int32"))
	require.NoError(t, err)
	assert.Equal(t, "{<a=int32,b=bool>}@CLIENTS", call.TypeSignature().String())
}

func TestFederatedSetAttrCall_AssignableValueNarrowsElement(t *testing.T) {
	comp := testutil.Data(t, "data", "{<a=int32[?],b=bool>}@CLIENTS")
	call, err := FederatedSetAttrCall(comp, "a", testutil.Data(t, "x", "int32[2]"))
	require.NoError(t, err)
	assert.Equal(t, "{<a=int32[2],b=bool>}@CLIENTS", call.TypeSignature().String())
	assert.True(t, types.IsAssignableFrom(comp.TypeSignature(), call.TypeSignature()))
	assert.NoError(t, ir.Validate(call))
}
