// Package harness runs construction scripts against the constructor
// library.
//
// # Script Format
//
// Scripts are YAML files with the following structure:
//
//	name: getattr_clients
//	description: "Selecting a named field of a clients value"
//	fragments:
//	  - name: comp
//	    kind: reference
//	    type: "{<a=int32,b=bool>}@CLIENTS"
//	steps:
//	  - op: federated_getattr_call
//	    args: [comp]
//	    name: a
//	    bind: field
//	    expect:
//	      repr: "federated_map(<(x -> x.a),comp>)"
//	      type: "{int32}@CLIENTS"
//	  - op: federated_getattr_comp
//	    args: [comp]
//	    name: c
//	    expect:
//	      error: value_error
//	      contains: "no element of name c"
//
// Fragments are the inputs: free references, opaque data, identity or
// selecting lambdas, and tuples of earlier fragments. Each step calls one
// registered constructor (see Ops) on named fragments and may bind its
// result for later steps. The validate op checks a result with
// ir.Validate, treating every reference fragment as bound.
//
// # Expectations
//
// A step without an expectation must succeed. An expectation either pins
// the exact repr and type of the result, or names the failure kind and a
// substring of its message. Scripts are validated in full at load time,
// so a run only fails on expectation mismatches.
//
// # Golden Files
//
// RenderTrace renders a result as plain text: one block per step with its
// repr and type, or its error kind and operation. Run IDs are excluded, so
// traces are byte-stable across runs. RunWithGolden compares the rendering
// against testdata/golden/{name}.golden; regenerate with:
//
//	go test ./internal/harness -update
package harness
