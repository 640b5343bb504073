// Package ir provides the node model for federated computation fragments.
//
// Node is a sealed interface over eight kinds: Reference, Selection, Tuple,
// Lambda, Block, Call, Intrinsic and Data. Every node carries a type
// signature. Leaves (Reference, Intrinsic, Data) take it explicitly; every
// other kind derives it from its children when built. Nodes are immutable
// once constructed and may be shared freely between goroutines.
//
// The canonical text form returned by String() is the equality key used by
// tests and tools:
//
//	x                       reference
//	x[0]  x.a               selection by position, by name
//	<a=x,y>                 tuple
//	(x -> x[0])             lambda
//	(let a=v,b=w in a)      block
//	federated_map(<f,v>)    call
//
// ir depends only on the types and errkind packages.
package ir
