package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RenderTrace renders a result as stable plain text for golden comparison.
// The run ID and fingerprints are omitted.
func RenderTrace(r *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "script: %s\n", r.Script)
	if r.Pass {
		b.WriteString("result: pass\n")
	} else {
		b.WriteString("result: fail\n")
	}
	b.WriteString("---\n")

	for _, s := range r.Steps {
		fmt.Fprintf(&b, "[%d] %s", s.Seq, s.Op)
		if s.Bind != "" {
			fmt.Fprintf(&b, " -> %s", s.Bind)
		}
		b.WriteString("\n")
		if s.Failed() {
			kind := s.ErrorKind
			if kind == "" {
				kind = "ERROR"
			}
			if s.ErrorOp != "" {
				fmt.Fprintf(&b, "    error: %s (%s)\n", kind, s.ErrorOp)
			} else {
				fmt.Fprintf(&b, "    error: %s\n", kind)
			}
			continue
		}
		fmt.Fprintf(&b, "    repr: %s\n", s.Repr)
		fmt.Fprintf(&b, "    type: %s\n", s.Type)
	}

	if len(r.Errors) > 0 {
		b.WriteString("errors:\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  - %s\n", strings.ReplaceAll(e, "\n", "\n    "))
		}
	}
	return []byte(b.String())
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// RunWithGolden executes a script and compares its trace against
// testdata/golden/{script.Name}.golden.
//
// Returns an error if the script cannot be executed. A trace mismatch fails
// the test through goldie.
func RunWithGolden(t *testing.T, script *Script) (*Result, error) {
	t.Helper()

	result, err := Run(script)
	if err != nil {
		return nil, err
	}
	newGoldie(t).Assert(t, script.Name, RenderTrace(result))
	return result, nil
}

// AssertGolden compares an existing result against the golden file name.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()
	newGoldie(t).Assert(t, name, RenderTrace(result))
}
