package ir

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/types"
)

// Validate walks n and reports every structural problem it finds:
//   - a Reference not bound by an enclosing Lambda parameter, an earlier
//     Block binding or one of the free references in env
//   - a Reference whose type differs from its binding's type
//   - a Selection, Tuple, Lambda or Call whose stored type does not
//     re-derive from its children
//
// Problems are combined with multierr; use multierr.Errors to split them.
func Validate(n Node, env ...*Reference) error {
	v := &validator{scope: map[string][]types.Type{}}
	for _, r := range env {
		v.push(r.Name(), r.TypeSignature())
	}
	v.walk(n, "$")
	return v.errs
}

type validator struct {
	scope map[string][]types.Type
	errs  error
}

func (v *validator) push(name string, t types.Type) {
	v.scope[name] = append(v.scope[name], t)
}

func (v *validator) pop(name string) {
	s := v.scope[name]
	if len(s) <= 1 {
		delete(v.scope, name)
		return
	}
	v.scope[name] = s[:len(s)-1]
}

func (v *validator) fail(err *errkind.Error, path string) {
	v.errs = multierr.Append(v.errs, err.With("path", path))
}

func (v *validator) walk(n Node, path string) {
	if n == nil {
		v.fail(errkind.Valuef("validate", "nil node"), path)
		return
	}
	switch n := n.(type) {
	case *Reference:
		bound, ok := v.scope[n.name]
		if !ok {
			v.fail(errkind.Valuef("validate", "unbound reference %s", n.name).With("name", n.name), path)
			return
		}
		if want := bound[len(bound)-1]; !types.Equal(want, n.typ) {
			v.fail(errkind.Typef("validate", "reference %s has type %s, bound as %s", n.name, typeText(n.typ), typeText(want)).
				With("name", n.name), path)
		}

	case *Selection:
		v.walk(n.source, path+".source")
		nt, ok := types.AsNamedTuple(n.source.TypeSignature())
		switch {
		case !ok:
			v.fail(errkind.Typef("validate", "selection from non-tuple type %s", typeText(n.source.TypeSignature())), path)
		case n.index < 0 || n.index >= nt.Len():
			v.fail(errkind.Valuef("validate", "selection index %d out of range for %s", n.index, nt), path)
		case n.name != "" && nt.Element(n.index).Name != n.name:
			v.fail(errkind.Valuef("validate", "selection name %s does not match element %d of %s", n.name, n.index, nt), path)
		case !types.Equal(nt.Element(n.index).Type, n.typ):
			v.fail(errkind.Typef("validate", "selection type %s does not match element type %s", typeText(n.typ), typeText(nt.Element(n.index).Type)), path)
		}

	case *Tuple:
		for i, e := range n.elements {
			v.walk(e.Value, fmt.Sprintf("%s[%d]", path, i))
		}
		if n.typ.Len() != len(n.elements) {
			v.fail(errkind.Typef("validate", "tuple type %s does not match %d elements", n.typ, len(n.elements)), path)
			return
		}
		for i, e := range n.elements {
			te := n.typ.Element(i)
			if te.Name != e.Name || !types.Equal(te.Type, e.Value.TypeSignature()) {
				v.fail(errkind.Typef("validate", "tuple element %d does not match type %s", i, n.typ), path)
			}
		}

	case *Lambda:
		v.push(n.param, n.paramType)
		v.walk(n.body, path+".body")
		v.pop(n.param)
		if !types.Equal(n.typ.Result(), n.body.TypeSignature()) {
			v.fail(errkind.Typef("validate", "lambda result type %s does not match body type %s", typeText(n.typ.Result()), typeText(n.body.TypeSignature())), path)
		}

	case *Block:
		for i, b := range n.bindings {
			v.walk(b.Value, fmt.Sprintf("%s.let[%d]", path, i))
			v.push(b.Name, b.Value.TypeSignature())
		}
		v.walk(n.result, path+".result")
		for i := len(n.bindings) - 1; i >= 0; i-- {
			v.pop(n.bindings[i].Name)
		}

	case *Call:
		v.walk(n.fn, path+".fn")
		if n.arg != nil {
			v.walk(n.arg, path+".arg")
		}
		ft, ok := types.AsFunction(n.fn.TypeSignature())
		if !ok {
			v.fail(errkind.Typef("validate", "call of non-function type %s", typeText(n.fn.TypeSignature())), path)
			return
		}
		if n.arg != nil && !types.IsAssignableFrom(ft.Parameter(), n.arg.TypeSignature()) {
			v.fail(errkind.Typef("validate", "argument type %s is not assignable to %s", typeText(n.arg.TypeSignature()), typeText(ft.Parameter())), path)
		}
		if !types.Equal(ft.Result(), n.typ) {
			v.fail(errkind.Typef("validate", "call type %s does not match result type %s", typeText(n.typ), typeText(ft.Result())), path)
		}

	case *Intrinsic, *Data:
		if n.TypeSignature() == nil {
			v.fail(errkind.Typef("validate", "%s %s has no type", n.Kind(), n), path)
		}
	}
}
