package harness

// StepRecord is the outcome of one executed step.
type StepRecord struct {
	Seq         int    `json:"seq"`
	Op          string `json:"op"`
	Bind        string `json:"bind,omitempty"`
	Repr        string `json:"repr,omitempty"`
	Type        string `json:"type,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty"`
	ErrorOp     string `json:"error_op,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Failed reports whether the step raised an error.
func (r StepRecord) Failed() bool {
	return r.Error != ""
}

// Result is the outcome of a script execution.
type Result struct {
	// Script is the name of the executed script.
	Script string `json:"script"`

	// RunID identifies this execution. It is not part of golden output.
	RunID string `json:"run_id"`

	// Pass is true if every step met its expectation.
	Pass bool `json:"pass"`

	// Steps holds one record per executed step, in order.
	Steps []StepRecord `json:"steps"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result with no steps.
func NewResult(script, runID string) *Result {
	return &Result{
		Script: script,
		RunID:  runID,
		Pass:   true,
		Steps:  []StepRecord{},
		Errors: []string{},
	}
}

// AddError records an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep appends a step record.
func (r *Result) AddStep(rec StepRecord) {
	r.Steps = append(r.Steps, rec)
}
