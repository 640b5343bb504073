package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fedcore/internal/placement"
)

func TestString_CanonicalForms(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"scalar", Tensor(Int32), "int32"},
		{"array", Tensor(Float32, 2, UnknownDim), "float32[2,?]"},
		{"named tuple", NamedTuple(E("a", Tensor(Int32)), E("b", Tensor(Bool))), "<a=int32,b=bool>"},
		{"mixed tuple", NamedTuple(E("a", Tensor(Int32)), E("", Tensor(Float32)), E("b", Tensor(Bool))), "<a=int32,float32,b=bool>"},
		{"empty tuple", NamedTuple(), "<>"},
		{"clients", FederatedDefault(Tensor(Int32), placement.Clients), "{int32}@CLIENTS"},
		{"server", FederatedDefault(Tensor(Int32), placement.Server), "int32@SERVER"},
		{"all equal clients", Federated(Tensor(Int32), placement.Clients, true), "int32@CLIENTS"},
		{"function", Function(Tensor(Int32), Tensor(Bool)), "(int32 -> bool)"},
		{"no-arg function", Function(nil, Tensor(Bool)), "( -> bool)"},
		{"sequence", Sequence(Tensor(Int64)), "int64*"},
		{"sequence of tuples", Sequence(UnnamedTuple(Tensor(Int32), Tensor(Bool))), "<int32,bool>*"},
		{
			"federated tuple",
			FederatedDefault(NamedTuple(E("a", Tensor(Int32)), E("b", Tensor(Bool))), placement.Clients),
			"{<a=int32,b=bool>}@CLIENTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, TensorKind, Tensor(Int32).Kind())
	assert.Equal(t, NamedTupleKind, NamedTuple().Kind())
	assert.Equal(t, FederatedKind, FederatedDefault(Tensor(Int32), placement.Server).Kind())
	assert.Equal(t, FunctionKind, Function(nil, Tensor(Int32)).Kind())
	assert.Equal(t, SequenceKind, Sequence(Tensor(Int32)).Kind())
	assert.Equal(t, "named_tuple", NamedTupleKind.String())
}

func TestNamedTuple_Lookup(t *testing.T) {
	nt := NamedTuple(E("a", Tensor(Int32)), E("", Tensor(Float32)), E("a", Tensor(Bool)))

	assert.Equal(t, 3, nt.Len())
	assert.Equal(t, 0, nt.IndexOf("a"), "first match wins")
	assert.Equal(t, -1, nt.IndexOf("c"))
	assert.Equal(t, -1, nt.IndexOf(""), "empty name never matches unnamed elements")
	assert.Equal(t, []string{"a", "", "a"}, nt.Names())
}

func TestNamedTuple_CopiesInput(t *testing.T) {
	elems := []Element{E("a", Tensor(Int32))}
	nt := NamedTuple(elems...)
	elems[0].Name = "mutated"

	assert.Equal(t, "a", nt.Element(0).Name)

	out := nt.Elements()
	out[0].Name = "mutated"
	assert.Equal(t, "a", nt.Element(0).Name)
}

func TestTensor_ShapeCopy(t *testing.T) {
	tt := Tensor(Int32, 3)
	s := tt.Shape()
	s[0] = 7
	assert.Equal(t, []int{3}, tt.Shape())
	assert.Nil(t, Tensor(Int32).Shape())
}

func TestFederated_Accessors(t *testing.T) {
	ft := FederatedDefault(Tensor(Int32), placement.Server)
	assert.True(t, ft.AllEqual())
	assert.Same(t, placement.Server, ft.Placement())
	assert.Equal(t, "int32", ft.Member().String())
}

func TestAs(t *testing.T) {
	_, ok := AsNamedTuple(Tensor(Int32))
	assert.False(t, ok)

	nt, ok := AsNamedTuple(NamedTuple())
	require.True(t, ok)
	assert.Equal(t, 0, nt.Len())

	_, ok = AsFederated(NamedTuple())
	assert.False(t, ok)
	_, ok = AsFunction(Function(nil, Tensor(Int32)))
	assert.True(t, ok)
	_, ok = AsSequence(Sequence(Tensor(Int32)))
	assert.True(t, ok)
}

func TestContainsFederated(t *testing.T) {
	fed := FederatedDefault(Tensor(Int32), placement.Clients)

	assert.False(t, ContainsFederated(Tensor(Int32)))
	assert.True(t, ContainsFederated(fed))
	assert.True(t, ContainsFederated(NamedTuple(E("a", Tensor(Int32)), E("b", fed))))
	assert.True(t, ContainsFederated(Function(fed, Tensor(Int32))))
	assert.False(t, ContainsFederated(Function(nil, Tensor(Int32))))
	assert.True(t, ContainsFederated(Sequence(fed)))
}

func TestDType(t *testing.T) {
	d, ok := LookupDType("float64")
	require.True(t, ok)
	assert.Equal(t, Float64, d)
	assert.True(t, d.IsFloating())
	assert.True(t, d.IsNumeric())
	assert.True(t, Uint8.IsInteger())
	assert.False(t, Bool.IsNumeric())
	assert.False(t, String.IsNumeric())
	assert.Equal(t, "invalid", InvalidDType.String())

	_, ok = LookupDType("complex64")
	assert.False(t, ok)
}
