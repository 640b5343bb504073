package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/fedcore/internal/types"
)

func TestFingerprint_Stable(t *testing.T) {
	a := NewData("v", types.Tensor(types.Int32))
	b := NewData("v", types.Tensor(types.Int32))

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.Len(t, Fingerprint(a), 64)
}

func TestFingerprint_TypeSensitive(t *testing.T) {
	a := NewData("v", types.Tensor(types.Int32))
	b := NewData("v", types.Tensor(types.Int64))

	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprint_NFC(t *testing.T) {
	// "é" precomposed vs decomposed
	a := NewData("café", types.Tensor(types.Int32))
	b := NewData("café", types.Tensor(types.Int32))

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprint_DomainSeparated(t *testing.T) {
	n := NewData("v", types.Tensor(types.Int32))
	raw := hashWithDomain("", []byte("v\x00int32"))
	assert.NotEqual(t, raw, Fingerprint(n))
	assert.Equal(t, hashWithDomain(DomainNode, []byte("v\x00int32")), Fingerprint(n))
}

func TestDescribe(t *testing.T) {
	n := NewReference("x", types.MustParse("{int32}@CLIENTS"))
	d := Describe(n)

	assert.Equal(t, "reference", d.Kind)
	assert.Equal(t, "x", d.Repr)
	assert.Equal(t, "{int32}@CLIENTS", d.Type)
	assert.Equal(t, Fingerprint(n), d.Fingerprint)
}
