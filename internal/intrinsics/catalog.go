// Package intrinsics provides the catalog of primitive federated operators.
//
// The catalog is declared in catalog.cue, validated against its CUE schema
// and decoded once into an immutable table on first use. Lookups never
// mutate the table, so the default catalog is safe for concurrent use.
package intrinsics

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"go.uber.org/multierr"

	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/placement"
)

//go:embed catalog.cue
var catalogSource []byte

// Intrinsic URIs.
const (
	FederatedAggregate      = "federated_aggregate"
	FederatedApply          = "federated_apply"
	FederatedBroadcast      = "federated_broadcast"
	FederatedCollect        = "federated_collect"
	FederatedMap            = "federated_map"
	FederatedMean           = "federated_mean"
	FederatedWeightedMean   = "federated_weighted_mean"
	FederatedReduce         = "federated_reduce"
	FederatedSum            = "federated_sum"
	FederatedValueAtClients = "federated_value_at_clients"
	FederatedValueAtServer  = "federated_value_at_server"
	FederatedZipAtClients   = "federated_zip_at_clients"
	FederatedZipAtServer    = "federated_zip_at_server"
	SequenceMap             = "sequence_map"
	SequenceReduce          = "sequence_reduce"
	SequenceSum             = "sequence_sum"
)

// Operator names. OpValue and OpZip have placement-specific variants.
const (
	OpAggregate      = "aggregate"
	OpApply          = "apply"
	OpBroadcast      = "broadcast"
	OpCollect        = "collect"
	OpMap            = "map"
	OpMean           = "mean"
	OpWeightedMean   = "weighted_mean"
	OpReduce         = "reduce"
	OpSum            = "sum"
	OpValue          = "value"
	OpZip            = "zip"
	OpSequenceMap    = "sequence_map"
	OpSequenceReduce = "sequence_reduce"
	OpSequenceSum    = "sequence_sum"
)

// Def is one catalog entry.
type Def struct {
	URI         string `json:"uri"`
	Operator    string `json:"operator"`
	Placement   string `json:"placement,omitempty"`
	Signature   string `json:"signature"`
	Description string `json:"description"`
}

// LoadError reports an invalid catalog document.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Catalog is an immutable table of intrinsic definitions.
type Catalog struct {
	defs       []Def
	byURI      map[string]Def
	byOperator map[string]map[string]Def // operator -> placement uri ("" if none) -> def
}

// Load compiles a catalog document. The document must define an
// `intrinsics` list conforming to #Intrinsic. Duplicate URIs and duplicate
// (operator, placement) pairs are rejected; all such problems are reported
// together.
func Load(src []byte) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename("catalog.cue"))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	list := v.LookupPath(cue.ParsePath("intrinsics"))
	if !list.Exists() {
		return nil, &LoadError{Field: "intrinsics", Message: "intrinsics list is required", Pos: v.Pos()}
	}

	var defs []Def
	if err := list.Decode(&defs); err != nil {
		return nil, formatCUEError(err)
	}

	c := &Catalog{
		defs:       defs,
		byURI:      make(map[string]Def, len(defs)),
		byOperator: make(map[string]map[string]Def),
	}

	var errs error
	for _, d := range defs {
		if _, dup := c.byURI[d.URI]; dup {
			errs = multierr.Append(errs, &LoadError{Field: "uri", Message: fmt.Sprintf("duplicate intrinsic %q", d.URI)})
			continue
		}
		if d.Placement != "" {
			if _, ok := placement.Lookup(d.Placement); !ok {
				errs = multierr.Append(errs, &LoadError{Field: "placement", Message: fmt.Sprintf("intrinsic %q: unknown placement %q", d.URI, d.Placement)})
				continue
			}
		}
		variants := c.byOperator[d.Operator]
		if variants == nil {
			variants = make(map[string]Def)
			c.byOperator[d.Operator] = variants
		}
		if prev, dup := variants[d.Placement]; dup {
			errs = multierr.Append(errs, &LoadError{Field: "operator", Message: fmt.Sprintf("intrinsics %q and %q both define operator %q at placement %q", prev.URI, d.URI, d.Operator, d.Placement)})
			continue
		}
		variants[d.Placement] = d
		c.byURI[d.URI] = d
	}
	if errs != nil {
		return nil, errs
	}

	for op, variants := range c.byOperator {
		if _, generic := variants[""]; generic && len(variants) > 1 {
			return nil, &LoadError{Field: "operator", Message: fmt.Sprintf("operator %q mixes placement-specific and generic entries", op)}
		}
	}

	return c, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Load(catalogSource)
	if err != nil {
		panic(fmt.Sprintf("intrinsics: embedded catalog is invalid: %v", err))
	}
	return c
})

// Default returns the embedded catalog.
func Default() *Catalog { return defaultCatalog() }

// Lookup returns the definition registered under uri.
func (c *Catalog) Lookup(uri string) (Def, bool) {
	d, ok := c.byURI[uri]
	return d, ok
}

// All returns every definition sorted by URI.
func (c *Catalog) All() []Def {
	out := append([]Def(nil), c.defs...)
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

// URIFor resolves an operator to its URI. Operators with placement-specific
// variants require a registered placement that has a variant; anything else
// is a TYPE_ERROR. The placement is ignored for operators without variants.
// An unknown operator is a VALUE_ERROR.
func (c *Catalog) URIFor(operator string, p *placement.Literal) (string, error) {
	variants, ok := c.byOperator[operator]
	if !ok {
		return "", errkind.Valuef("uri_for", "unknown intrinsic operator %q", operator)
	}
	if d, generic := variants[""]; generic {
		return d.URI, nil
	}
	if p == nil {
		return "", errkind.Typef("uri_for", "operator %q requires a placement", operator)
	}
	if !placement.IsRegistered(p) {
		return "", errkind.Typef("uri_for", "unsupported placement %s for operator %q", p, operator).
			With("placement", p.String())
	}
	d, ok := variants[p.URI()]
	if !ok {
		return "", errkind.Typef("uri_for", "operator %q has no variant at placement %s", operator, p).
			With("placement", p.String())
	}
	return d.URI, nil
}

// Lookup returns the definition registered under uri in the default catalog.
func Lookup(uri string) (Def, bool) { return Default().Lookup(uri) }

// URIFor resolves an operator against the default catalog.
func URIFor(operator string, p *placement.Literal) (string, error) {
	return Default().URIFor(operator, p)
}

// All returns every definition of the default catalog sorted by URI.
func All() []Def { return Default().All() }

func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	positions := cueerrors.Positions(first)
	if len(positions) > 0 {
		return &LoadError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return &LoadError{Field: "cue", Message: first.Error()}
}
