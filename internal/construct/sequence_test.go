package construct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/testutil"
)

func TestSequenceMap(t *testing.T) {
	call, err := SequenceMap(testutil.Data(t, "f", "(int32 -> bool)"), testutil.Data(t, "s", "int32*"))
	require.NoError(t, err)
	assert.Equal(t, "sequence_map(<f,s>)", call.String())
	assert.Equal(t, "bool*", call.TypeSignature().String())

	_, err = SequenceMap(testutil.Data(t, "f", "(int32 -> bool)"), testutil.Data(t, "s", "float32*"))
	assert.True(t, errkind.IsTypeError(err))

	_, err = SequenceMap(testutil.Data(t, "f", "(int32 -> bool)"), testutil.Data(t, "s", "int32"))
	assert.True(t, errkind.IsTypeError(err))
}

func TestSequenceReduce(t *testing.T) {
	seq := testutil.Data(t, "s", "int32*")
	zero := testutil.Data(t, "zero", "int64")
	op := testutil.Data(t, "op", "(<int64,int32> -> int64)")

	call, err := SequenceReduce(seq, zero, op)
	require.NoError(t, err)
	assert.Equal(t, "sequence_reduce(<s,zero,op>)", call.String())
	assert.Equal(t, "int64", call.TypeSignature().String())

	_, err = SequenceReduce(seq, zero, testutil.Data(t, "op", "(<int64,bool> -> int64)"))
	assert.True(t, errkind.IsTypeError(err))

	_, err = SequenceReduce(seq, nil, op)
	assert.True(t, errkind.IsTypeError(err))
}

func TestSequenceSum(t *testing.T) {
	call, err := SequenceSum(testutil.Data(t, "s", "<int32,float32>*"))
	require.NoError(t, err)
	assert.Equal(t, "sequence_sum(s)", call.String())
	assert.Equal(t, "<int32,float32>", call.TypeSignature().String())

	_, err = SequenceSum(testutil.Data(t, "s", "bool*"))
	assert.True(t, errkind.IsTypeError(err))
}
