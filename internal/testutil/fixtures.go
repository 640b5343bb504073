// Package testutil provides shared helpers for tests: type and fragment
// fixtures built from canonical type literals, and a deterministic run ID
// generator.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/fedcore/internal/ir"
	"github.com/roach88/fedcore/internal/types"
)

// Type parses a canonical type literal, failing the test on error.
func Type(tb testing.TB, literal string) types.Type {
	tb.Helper()
	t, err := types.Parse(literal)
	require.NoError(tb, err, "parse type %q", literal)
	return t
}

// Ref returns a reference named name of the given type literal.
func Ref(tb testing.TB, name, literal string) *ir.Reference {
	tb.Helper()
	return ir.NewReference(name, Type(tb, literal))
}

// Data returns a data node labelled label of the given type literal.
func Data(tb testing.TB, label, literal string) *ir.Data {
	tb.Helper()
	return ir.NewData(label, Type(tb, literal))
}

// Identity returns (name -> name) over the given type literal.
func Identity(tb testing.TB, name, literal string) *ir.Lambda {
	tb.Helper()
	ref := Ref(tb, name, literal)
	return ir.NewLambda(name, ref.TypeSignature(), ref)
}
