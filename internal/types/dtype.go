package types

// DType is the element kind of a tensor.
type DType int

// Supported element kinds.
const (
	InvalidDType DType = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float16
	Float32
	Float64
	String
)

var dtypeNames = map[DType]string{
	Bool:    "bool",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Float16: "float16",
	Float32: "float32",
	Float64: "float64",
	String:  "string",
}

var dtypesByName = func() map[string]DType {
	m := make(map[string]DType, len(dtypeNames))
	for d, n := range dtypeNames {
		m[n] = d
	}
	return m
}()

// String returns the canonical name ("int32").
func (d DType) String() string {
	if n, ok := dtypeNames[d]; ok {
		return n
	}
	return "invalid"
}

// LookupDType resolves a canonical dtype name.
func LookupDType(name string) (DType, bool) {
	d, ok := dtypesByName[name]
	return d, ok
}

// IsNumeric reports whether values of d can be summed.
func (d DType) IsNumeric() bool {
	return d.IsInteger() || d.IsFloating()
}

// IsInteger reports whether d is a signed or unsigned integer kind.
func (d DType) IsInteger() bool {
	switch d {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

// IsFloating reports whether d is a floating-point kind.
func (d DType) IsFloating() bool {
	switch d {
	case Float16, Float32, Float64:
		return true
	}
	return false
}
