package errkind

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	err := Valuef("federated_zip", "argument must be a 2-tuple, not a %d-tuple", 3).
		With("expected", "2").
		With("actual", "3")

	assert.Equal(t,
		"VALUE_ERROR: federated_zip: argument must be a 2-tuple, not a 3-tuple (actual=3, expected=2)",
		err.Error())
}

func TestError_FormatWithoutOp(t *testing.T) {
	err := Typef("", "boom")
	assert.Equal(t, "TYPE_ERROR: boom", err.Error())
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		typeErr  bool
		valueErr bool
		attrErr  bool
		wantKind Kind
	}{
		{"type", Typef("op", "x"), true, false, false, KindType},
		{"value", Valuef("op", "x"), false, true, false, KindValue},
		{"attribute", Attributef("op", "x"), false, false, true, KindAttribute},
		{"plain", fmt.Errorf("plain"), false, false, false, ""},
		{"nil", nil, false, false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typeErr, IsTypeError(tt.err))
			assert.Equal(t, tt.valueErr, IsValueError(tt.err))
			assert.Equal(t, tt.attrErr, IsAttributeError(tt.err))
			assert.Equal(t, tt.wantKind, KindOf(tt.err))
		})
	}
}

func TestPredicates_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("building step 3: %w", Attributef("setattr", "no attribute c"))
	assert.True(t, IsAttributeError(wrapped))
	assert.False(t, IsTypeError(wrapped))
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"type_error", "TYPE_ERROR", " Type_Error "} {
		k, ok := ParseKind(s)
		assert.True(t, ok, s)
		assert.Equal(t, KindType, k)
	}

	k, ok := ParseKind("attribute_error")
	assert.True(t, ok)
	assert.Equal(t, KindAttribute, k)

	_, ok = ParseKind("key_error")
	assert.False(t, ok)
}
