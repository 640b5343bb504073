// Package construct builds typed IR fragments for federated operations.
//
// Every constructor is a pure function: it validates its inputs, derives
// the result type, instantiates an intrinsic from the catalog where one is
// needed and returns a new fragment. Inputs are never modified. Failures
// are *errkind.Error values of kind TYPE_ERROR, VALUE_ERROR or
// ATTRIBUTE_ERROR and leave nothing behind.
//
// Where a value must appear in a position that may be read more than once,
// constructors bind it with a Block so it is evaluated exactly once. The
// placeholder names are fixed: x for selection and naming lambdas,
// lambda_arg and value_comp_placeholder for setattr, append_base for tuple
// append.
package construct
