package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/ir"
	"github.com/roach88/fedcore/internal/types"
)

// Harness executes scripts.
type Harness struct {
	logger *slog.Logger
	runIDs RunIDGenerator
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithRunIDGenerator sets the run ID source. The default is UUIDv7.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(h *Harness) { h.runIDs = g }
}

// New creates a harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		runIDs: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a script with a default harness.
func Run(s *Script) (*Result, error) {
	return New().Run(context.Background(), s)
}

// scope holds the nodes visible to steps.
type scope struct {
	nodes map[string]ir.Node
	refs  []*ir.Reference
}

// Run executes every step of s in order and checks its expectations.
//
// The returned error covers only setup failures (a fragment that cannot be
// built) and cancellation. Constructor failures are step outcomes, recorded
// in the result.
func (h *Harness) Run(ctx context.Context, s *Script) (*Result, error) {
	runID := s.RunID
	if runID == "" {
		runID = h.runIDs.Generate()
	}
	log := h.logger.With("script", s.Name, "run_id", runID)

	env, err := buildFragments(s.Fragments)
	if err != nil {
		return nil, errors.Wrap(err, "build fragments")
	}

	result := NewResult(s.Name, runID)
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "step %d", i+1)
		}
		h.executeStep(log, env, i+1, st, result)
	}

	log.Info("script complete", "steps", len(result.Steps), "pass", result.Pass)
	return result, nil
}

func (h *Harness) executeStep(log *slog.Logger, env *scope, seq int, st Step, result *Result) {
	rec := StepRecord{Seq: seq, Op: st.Op, Bind: st.Bind}

	args := make([]ir.Node, len(st.Args))
	for i, name := range st.Args {
		n, ok := env.nodes[name]
		if !ok {
			// Only reachable when an earlier bound step failed.
			rec.Error = fmt.Sprintf("argument %q is unavailable", name)
			result.AddStep(rec)
			result.AddError(fmt.Sprintf("step %d (%s): argument %q is unavailable", seq, st.Op, name))
			return
		}
		args[i] = n
	}

	node, err := ops[st.Op].build(env, st, args)
	if err != nil {
		rec.ErrorKind = string(errkind.KindOf(err))
		var kerr *errkind.Error
		if errors.As(err, &kerr) {
			rec.ErrorOp = kerr.Op
		}
		rec.Error = err.Error()
		log.Debug("step failed", "seq", seq, "op", st.Op, "error", err)
	} else {
		rec.Repr = node.String()
		rec.Type = typeText(node.TypeSignature())
		rec.Fingerprint = ir.Fingerprint(node)
		if st.Bind != "" {
			env.nodes[st.Bind] = node
		}
		log.Debug("step built", "seq", seq, "op", st.Op, "repr", rec.Repr)
	}

	result.AddStep(rec)
	for _, msg := range checkExpect(st.Expect, rec) {
		result.AddError(fmt.Sprintf("step %d (%s): %s", seq, st.Op, msg))
	}
}

// buildFragments materializes the declared fragments in order.
func buildFragments(frags []Fragment) (*scope, error) {
	env := &scope{nodes: make(map[string]ir.Node, len(frags))}
	for _, f := range frags {
		n, err := buildFragment(env, f)
		if err != nil {
			return nil, errors.Wrapf(err, "fragment %q", f.Name)
		}
		env.nodes[f.Name] = n
	}
	return env, nil
}

func buildFragment(env *scope, f Fragment) (ir.Node, error) {
	switch f.Kind {
	case FragmentReference:
		t, err := types.Parse(f.Type)
		if err != nil {
			return nil, err
		}
		ref := ir.NewReference(f.Name, t)
		env.refs = append(env.refs, ref)
		return ref, nil

	case FragmentData:
		t, err := types.Parse(f.Type)
		if err != nil {
			return nil, err
		}
		label := f.Label
		if label == "" {
			label = f.Name
		}
		return ir.NewData(label, t), nil

	case FragmentLambda:
		t, err := types.Parse(f.Type)
		if err != nil {
			return nil, err
		}
		param := f.Param
		if param == "" {
			param = "x"
		}
		ref := ir.NewReference(param, t)
		var body ir.Node = ref
		if f.Select != "" {
			sel, err := ir.NewSelectionName(ref, f.Select)
			if err != nil {
				return nil, err
			}
			body = sel
		}
		return ir.NewLambda(param, t, body), nil

	case FragmentTuple:
		elems := make([]ir.Element, len(f.Elements))
		for i, name := range f.Elements {
			n, ok := env.nodes[name]
			if !ok {
				return nil, errors.Errorf("unknown element %q", name)
			}
			elems[i] = ir.Element{Value: n}
			if len(f.Names) > 0 {
				elems[i].Name = f.Names[i]
			}
		}
		return ir.NewTuple(elems...), nil
	}
	return nil, errors.Errorf("unknown kind %q", f.Kind)
}

func typeText(t types.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}
