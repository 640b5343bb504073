package types

import "github.com/roach88/fedcore/internal/errkind"

// Equal reports whether a and b are structurally identical, including
// element names and all-equal bits.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *TensorType:
		b, ok := b.(*TensorType)
		if !ok || a.dtype != b.dtype || len(a.shape) != len(b.shape) {
			return false
		}
		for i := range a.shape {
			if a.shape[i] != b.shape[i] {
				return false
			}
		}
		return true
	case *NamedTupleType:
		b, ok := b.(*NamedTupleType)
		if !ok || len(a.elements) != len(b.elements) {
			return false
		}
		for i := range a.elements {
			if a.elements[i].Name != b.elements[i].Name || !Equal(a.elements[i].Type, b.elements[i].Type) {
				return false
			}
		}
		return true
	case *FederatedType:
		b, ok := b.(*FederatedType)
		return ok && a.placement == b.placement && a.allEqual == b.allEqual && Equal(a.member, b.member)
	case *FunctionType:
		b, ok := b.(*FunctionType)
		return ok && Equal(a.parameter, b.parameter) && Equal(a.result, b.result)
	case *SequenceType:
		b, ok := b.(*SequenceType)
		return ok && Equal(a.element, b.element)
	default:
		return false
	}
}

// IsAssignableFrom reports whether a value of type source may be used where
// target is expected.
//
// Kinds must match. Tensors need equal dtypes and ranks; an unknown target
// dimension accepts any size. Tuples need equal lengths and element-wise
// assignability; a named target position requires the same name on the
// source, an unnamed target position accepts any name. Federated types
// need identical placements, and an all-equal target rejects a source that
// is not all-equal. Functions are contravariant in the parameter and
// covariant in the result.
func IsAssignableFrom(target, source Type) bool {
	if target == nil || source == nil {
		return target == nil && source == nil
	}
	switch t := target.(type) {
	case *TensorType:
		s, ok := source.(*TensorType)
		if !ok || t.dtype != s.dtype || len(t.shape) != len(s.shape) {
			return false
		}
		for i := range t.shape {
			if t.shape[i] != UnknownDim && t.shape[i] != s.shape[i] {
				return false
			}
		}
		return true
	case *NamedTupleType:
		s, ok := source.(*NamedTupleType)
		if !ok || len(t.elements) != len(s.elements) {
			return false
		}
		for i := range t.elements {
			te, se := t.elements[i], s.elements[i]
			if te.Name != "" && te.Name != se.Name {
				return false
			}
			if !IsAssignableFrom(te.Type, se.Type) {
				return false
			}
		}
		return true
	case *FederatedType:
		s, ok := source.(*FederatedType)
		if !ok || t.placement != s.placement {
			return false
		}
		if t.allEqual && !s.allEqual {
			return false
		}
		return IsAssignableFrom(t.member, s.member)
	case *FunctionType:
		s, ok := source.(*FunctionType)
		if !ok {
			return false
		}
		if (t.parameter == nil) != (s.parameter == nil) {
			return false
		}
		if t.parameter != nil && !IsAssignableFrom(s.parameter, t.parameter) {
			return false
		}
		return IsAssignableFrom(t.result, s.result)
	case *SequenceType:
		s, ok := source.(*SequenceType)
		return ok && IsAssignableFrom(t.element, s.element)
	default:
		return false
	}
}

// AreEquivalent reports whether a and b are mutually assignable.
func AreEquivalent(a, b Type) bool {
	return IsAssignableFrom(a, b) && IsAssignableFrom(b, a)
}

// CheckAssignableFrom returns a TYPE_ERROR carrying both types when source
// is not assignable to target.
func CheckAssignableFrom(op string, target, source Type) error {
	if IsAssignableFrom(target, source) {
		return nil
	}
	return errkind.Typef(op, "type %s is not assignable to type %s", typeString(source), typeString(target)).
		With("target", typeString(target)).
		With("source", typeString(source))
}

// IsSumCompatible reports whether values of t can be added element-wise:
// numeric tensors, or tuples whose elements are all sum-compatible.
func IsSumCompatible(t Type) bool {
	switch t := t.(type) {
	case *TensorType:
		return t.dtype.IsNumeric()
	case *NamedTupleType:
		for _, e := range t.elements {
			if !IsSumCompatible(e.Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsAverageCompatible reports whether values of t can be averaged:
// floating-point tensors, or tuples of them.
func IsAverageCompatible(t Type) bool {
	switch t := t.(type) {
	case *TensorType:
		return t.dtype.IsFloating()
	case *NamedTupleType:
		for _, e := range t.elements {
			if !IsAverageCompatible(e.Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
