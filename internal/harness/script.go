package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/roach88/fedcore/internal/errkind"
	"github.com/roach88/fedcore/internal/placement"
	"github.com/roach88/fedcore/internal/types"
)

// Fragment kinds a script may declare.
const (
	FragmentReference = "reference"
	FragmentData      = "data"
	FragmentLambda    = "lambda"
	FragmentTuple     = "tuple"
)

// Script is a construction script: named input fragments followed by
// constructor steps, each with an optional expectation.
type Script struct {
	// Name identifies the script and its golden file.
	Name string `yaml:"name"`

	// Description explains what the script exercises.
	Description string `yaml:"description"`

	// RunID pins the run ID for deterministic output. Optional.
	RunID string `yaml:"run_id,omitempty"`

	// Fragments are the inputs, declared in dependency order.
	Fragments []Fragment `yaml:"fragments"`

	// Steps are executed in order. A step may bind its result so later
	// steps can use it as an argument.
	Steps []Step `yaml:"steps"`
}

// Fragment declares one input node.
//
//	reference: a free variable of Type
//	data:      an opaque value of Type, labelled Label (default Name)
//	lambda:    (Param -> Param) over Type, or (Param -> Param.Select)
//	tuple:     a tuple of earlier fragments, optionally named by Names
type Fragment struct {
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind"`
	Type     string   `yaml:"type,omitempty"`
	Label    string   `yaml:"label,omitempty"`
	Param    string   `yaml:"param,omitempty"`
	Select   string   `yaml:"select,omitempty"`
	Elements []string `yaml:"elements,omitempty"`
	Names    []string `yaml:"names,omitempty"`
}

// Step invokes one constructor.
type Step struct {
	// Op is the registered constructor name (see Ops).
	Op string `yaml:"op"`

	// Args name fragments or earlier bound results, positionally.
	Args []string `yaml:"args,omitempty"`

	// Name is the element name for getattr, setattr and append.
	Name string `yaml:"name,omitempty"`

	// Names is the name list for naming_function.
	Names []string `yaml:"names,omitempty"`

	// Index and Slice select positions for getitem.
	Index *int       `yaml:"index,omitempty"`
	Slice *SliceSpec `yaml:"slice,omitempty"`

	// Placement is the target placement for federated_value.
	Placement string `yaml:"placement,omitempty"`

	// Type is a type literal for ops that take a type operand.
	Type string `yaml:"type,omitempty"`

	// Param is the parameter name for the lambda op.
	Param string `yaml:"param,omitempty"`

	// Bind names the result for use by later steps.
	Bind string `yaml:"bind,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// SliceSpec is a range key. Omitted bounds behave like x[::-1].
type SliceSpec struct {
	Start *int `yaml:"start,omitempty"`
	Stop  *int `yaml:"stop,omitempty"`
	Step  *int `yaml:"step,omitempty"`
}

// Expect describes the outcome a step must produce. Repr and Type compare
// exactly; Error names the failure kind and Contains is a substring of its
// message.
type Expect struct {
	Repr     string `yaml:"repr,omitempty"`
	Type     string `yaml:"type,omitempty"`
	Error    string `yaml:"error,omitempty"`
	Contains string `yaml:"contains,omitempty"`
}

// LoadScript reads and validates a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read script file")
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", filepath.Base(path))
	}
	return s, nil
}

// ParseScript decodes and validates a script document. Unknown fields are
// rejected.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "parse YAML")
	}
	if err := validateScript(&s); err != nil {
		return nil, errors.Wrap(err, "invalid script")
	}
	return &s, nil
}

// IsScriptFile reports whether name carries a script extension (.yaml or
// .yml).
func IsScriptFile(name string) bool {
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadScripts loads every script file in dir, sorted by file name. All
// load failures are reported together.
func LoadScripts(dir string) ([]*Script, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "list scripts")
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && IsScriptFile(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	var (
		scripts []*Script
		errs    error
	)
	for _, p := range paths {
		s, err := LoadScript(p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		scripts = append(scripts, s)
	}
	if errs != nil {
		return nil, errs
	}
	return scripts, nil
}

// validateScript checks structure and name resolution without building
// any IR. Every problem is reported, not just the first.
func validateScript(s *Script) error {
	var errs error
	add := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf(format, args...))
	}

	if s.Name == "" {
		add("name is required")
	}
	if s.Description == "" {
		add("description is required")
	}
	if len(s.Steps) == 0 {
		add("steps list is required and must be non-empty")
	}

	declared := make(map[string]bool)
	for i, f := range s.Fragments {
		if f.Name == "" {
			add("fragments[%d]: name is required", i)
		} else if declared[f.Name] {
			add("fragments[%d]: duplicate name %q", i, f.Name)
		}

		switch f.Kind {
		case FragmentReference, FragmentData, FragmentLambda:
			if f.Type == "" {
				add("fragments[%d]: type is required for %s", i, f.Kind)
			} else if _, err := types.Parse(f.Type); err != nil {
				add("fragments[%d]: %v", i, err)
			}
			if f.Kind == FragmentLambda && f.Select != "" {
				if t, err := types.Parse(f.Type); err == nil {
					if nt, ok := types.AsNamedTuple(t); !ok || nt.IndexOf(f.Select) < 0 {
						add("fragments[%d]: type %s has no element %q", i, f.Type, f.Select)
					}
				}
			}
		case FragmentTuple:
			if len(f.Elements) == 0 {
				add("fragments[%d]: tuple requires elements", i)
			}
			if len(f.Names) > 0 && len(f.Names) != len(f.Elements) {
				add("fragments[%d]: %d names for %d elements", i, len(f.Names), len(f.Elements))
			}
			for _, e := range f.Elements {
				if !declared[e] {
					add("fragments[%d]: unknown element %q", i, e)
				}
			}
		case "":
			add("fragments[%d]: kind is required", i)
		default:
			add("fragments[%d]: unknown kind %q", i, f.Kind)
		}

		if f.Name != "" {
			declared[f.Name] = true
		}
	}

	for i, st := range s.Steps {
		def, ok := ops[st.Op]
		switch {
		case st.Op == "":
			add("steps[%d]: op is required", i)
		case !ok:
			add("steps[%d]: unknown op %q", i, st.Op)
		case len(st.Args) < def.minArgs || len(st.Args) > def.maxArgs:
			add("steps[%d]: %s takes %s, got %d", i, st.Op, def.arity(), len(st.Args))
		}
		if ok {
			for _, field := range def.missing(st) {
				add("steps[%d]: %s requires %s", i, st.Op, field)
			}
		}

		for _, a := range st.Args {
			if !declared[a] {
				add("steps[%d]: unknown argument %q", i, a)
			}
		}
		if st.Index != nil && st.Slice != nil {
			add("steps[%d]: index and slice are mutually exclusive", i)
		}
		if st.Type != "" {
			if _, err := types.Parse(st.Type); err != nil {
				add("steps[%d]: %v", i, err)
			}
		}
		if st.Placement != "" {
			if _, ok := placement.Lookup(st.Placement); !ok {
				add("steps[%d]: unknown placement %q", i, st.Placement)
			}
		}
		if e := st.Expect; e != nil {
			if e.Error != "" {
				if _, ok := errkind.ParseKind(e.Error); !ok {
					add("steps[%d]: unknown error kind %q", i, e.Error)
				}
				if e.Repr != "" || e.Type != "" {
					add("steps[%d]: expect cannot combine error with repr or type", i)
				}
			} else if e.Contains != "" {
				add("steps[%d]: expect.contains requires expect.error", i)
			}
		}

		if st.Bind != "" {
			if declared[st.Bind] {
				add("steps[%d]: bind %q shadows an existing name", i, st.Bind)
			}
			declared[st.Bind] = true
		}
	}

	return errs
}
