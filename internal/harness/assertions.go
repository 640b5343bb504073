package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/fedcore/internal/errkind"
)

// checkExpect compares a step record against its expectation and returns
// one message per mismatch. A nil expectation requires success.
func checkExpect(e *Expect, rec StepRecord) []string {
	if e == nil {
		if rec.Failed() {
			return []string{"unexpected error: " + rec.Error}
		}
		return nil
	}

	if e.Error != "" {
		want, _ := errkind.ParseKind(e.Error)
		if !rec.Failed() {
			return []string{fmt.Sprintf("expected %s, got success: %s", want, rec.Repr)}
		}
		var msgs []string
		if rec.ErrorKind != string(want) {
			msgs = append(msgs, fmt.Sprintf("expected %s, got %s", want, kindText(rec.ErrorKind)))
		}
		if e.Contains != "" && !strings.Contains(rec.Error, e.Contains) {
			msgs = append(msgs, fmt.Sprintf("error %q does not contain %q", rec.Error, e.Contains))
		}
		return msgs
	}

	if rec.Failed() {
		return []string{"unexpected error: " + rec.Error}
	}
	var msgs []string
	if e.Repr != "" && rec.Repr != e.Repr {
		msgs = append(msgs, fmt.Sprintf("repr mismatch\n  Expected: %s\n  Actual: %s", e.Repr, rec.Repr))
	}
	if e.Type != "" && rec.Type != e.Type {
		msgs = append(msgs, fmt.Sprintf("type mismatch\n  Expected: %s\n  Actual: %s", e.Type, rec.Type))
	}
	return msgs
}

func kindText(k string) string {
	if k == "" {
		return "an untyped error"
	}
	return k
}
