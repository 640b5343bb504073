package harness

import (
	"fmt"
	"sort"

	"github.com/roach88/fedcore/internal/construct"
	"github.com/roach88/fedcore/internal/ir"
	"github.com/roach88/fedcore/internal/placement"
	"github.com/roach88/fedcore/internal/types"
)

// opSpec binds a step op to its constructor.
type opSpec struct {
	minArgs  int
	maxArgs  int
	requires []string // step fields that must be set
	build    func(env *scope, s Step, args []ir.Node) (ir.Node, error)
}

func (o opSpec) arity() string {
	if o.minArgs == o.maxArgs {
		if o.minArgs == 1 {
			return "1 argument"
		}
		return fmt.Sprintf("%d arguments", o.minArgs)
	}
	return fmt.Sprintf("%d to %d arguments", o.minArgs, o.maxArgs)
}

// missing returns the required step fields that s leaves empty.
func (o opSpec) missing(s Step) []string {
	var out []string
	for _, field := range o.requires {
		set := true
		switch field {
		case "name":
			set = s.Name != ""
		case "names":
			set = s.Names != nil
		case "type":
			set = s.Type != ""
		case "placement":
			set = s.Placement != ""
		case "param":
			set = s.Param != ""
		}
		if !set {
			out = append(out, field)
		}
	}
	return out
}

var ops = map[string]opSpec{
	"federated_getitem_comp": {1, 1, nil, func(_ *scope, s Step, a []ir.Node) (ir.Node, error) {
		return construct.FederatedGetItemComp(a[0], keyOf(s))
	}},
	"federated_getitem_call": {1, 1, nil, func(_ *scope, s Step, a []ir.Node) (ir.Node, error) {
		return construct.FederatedGetItemCall(a[0], keyOf(s))
	}},
	"federated_getattr_comp": {1, 1, []string{"name"}, func(_ *scope, s Step, a []ir.Node) (ir.Node, error) {
		return construct.FederatedGetAttrComp(a[0], s.Name)
	}},
	"federated_getattr_call": {1, 1, []string{"name"}, func(_ *scope, s Step, a []ir.Node) (ir.Node, error) {
		return construct.FederatedGetAttrCall(a[0], s.Name)
	}},
	"setattr_lambda": {1, 1, []string{"type", "name"}, func(_ *scope, s Step, a []ir.Node) (ir.Node, error) {
		return construct.NamedTupleSetAttrLambda(types.MustParse(s.Type), s.Name, a[0])
	}},
	"federated_setattr_call": {2, 2, []string{"name"}, func(_ *scope, s Step, a []ir.Node) (ir.Node, error) {
		return construct.FederatedSetAttrCall(a[0], s.Name, a[1])
	}},
	"map_or_apply": {2, 2, nil, func(_ *scope, _ Step, a []ir.Node) (ir.Node, error) {
		return construct.MapOrApply(a[0], a[1])
	}},
	"federated_map": {2, 2, nil, func(_ *scope, _ Step, a []ir.Node) (ir.Node, error) {
		return construct.FederatedMap(a[0], a[1])
	}},
	"federated_apply": {2, 2, nil, func(_ *scope, _ Step, a []ir.Node) (ir.Node, error) {
		return construct.FederatedApply(a[0], a[1])
	}},
	"federated_broadcast": {1, 1, nil, func(_ *scope, _ Step, a []ir.Node) (ir.Node, error) {
		return construct.FederatedBroadcast(a[0])
	}},
	"federated_collect": {1, 1, nil, func(_ *scope, _ Step, a []ir.Node) (ir.Node, error) {
		return construct.FederatedCollect(a[0])
	}},
	"federated_aggregate": {5, 5, nil, func(_ *scope, _ Step, a []ir.Node) (ir.Node, error) {
		return construct.FederatedAggregate(a[0], a[1], a[2], a[3], a[4])
	}},
	"federated_reduce": {3, 3, nil, func(_ *scope, _ Step, a []ir.Node) (ir.Node, error) {
		return construct.FederatedReduce(a[0], a[1], a[2])
	}},
	"federated_sum": {1, 1, nil, func(_ *scope, _ Step, a []ir.Node) (ir.Node, error) {
		return construct.FederatedSum(a[0])
	}},
	"federated_mean": {1, 2, nil, func(_ *scope, _ Step, a []ir.Node) (ir.Node, error) {
		var weight ir.Node
		if len(a) == 2 {
			weight = a[1]
		}
		return construct.FederatedMean(a[0], weight)
	}},
	"federated_value": {1, 1, []string{"placement"}, func(_ *scope, s Step, a []ir.Node) (ir.Node, error) {
		p, _ := placement.Lookup(s.Placement)
		return construct.FederatedValue(a[0], p)
	}},
	"federated_zip": {1, 1, nil, func(_ *scope, _ Step, a []ir.Node) (ir.Node, error) {
		return construct.FederatedZipOfTwoTuple(a[0])
	}},
	"naming_function": {0, 0, []string{"type", "names"}, func(_ *scope, s Step, _ []ir.Node) (ir.Node, error) {
		return construct.NamingFunction(types.MustParse(s.Type), s.Names)
	}},
	"named_tuple_append": {2, 2, nil, func(_ *scope, s Step, a []ir.Node) (ir.Node, error) {
		return construct.NamedTupleAppend(a[0], s.Name, a[1])
	}},
	"sequence_map": {2, 2, nil, func(_ *scope, _ Step, a []ir.Node) (ir.Node, error) {
		return construct.SequenceMap(a[0], a[1])
	}},
	"sequence_reduce": {3, 3, nil, func(_ *scope, _ Step, a []ir.Node) (ir.Node, error) {
		return construct.SequenceReduce(a[0], a[1], a[2])
	}},
	"sequence_sum": {1, 1, nil, func(_ *scope, _ Step, a []ir.Node) (ir.Node, error) {
		return construct.SequenceSum(a[0])
	}},
	"lambda": {1, 1, []string{"param", "type"}, func(_ *scope, s Step, a []ir.Node) (ir.Node, error) {
		return ir.NewLambda(s.Param, types.MustParse(s.Type), a[0]), nil
	}},
	"validate": {1, 1, nil, func(env *scope, _ Step, a []ir.Node) (ir.Node, error) {
		if err := ir.Validate(a[0], env.refs...); err != nil {
			return nil, err
		}
		return a[0], nil
	}},
}

// Ops returns the registered step op names, sorted.
func Ops() []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// keyOf returns the getitem key of s, or nil when neither index nor slice
// is set.
func keyOf(s Step) construct.Key {
	switch {
	case s.Index != nil:
		return construct.Index(*s.Index)
	case s.Slice != nil:
		return construct.Range{Start: s.Slice.Start, Stop: s.Slice.Stop, Step: s.Slice.Step}
	}
	return nil
}
