// Package testutil provides testing helpers for code built on objmodel types.
// This package is designed to be import-cycle safe and can be used from any package.
package testutil

import (
	"encoding/json"
	"slices"
	"sync"
	"testing"
)

// Call is one recorded invocation.
type Call struct {
	Label string
	Args  []any
}

// Recorder records method invocations in order. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends a call. It is typically called from a method implementation
// or an interceptor.
func (r *Recorder) Record(label string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Label: label, Args: slices.Clone(args)})
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Labels returns the labels of the recorded calls, in order.
func (r *Recorder) Labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	labels := make([]string, len(r.calls))
	for i, c := range r.calls {
		labels[i] = c.Label
	}
	return labels
}

// Last returns the most recent call.
func (r *Recorder) Last() (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}, false
	}
	return r.calls[len(r.calls)-1], true
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// AssertLabels checks the recorded labels against expected.
func AssertLabels(t *testing.T, r *Recorder, expected ...string) {
	t.Helper()
	got := r.Labels()
	if !slices.Equal(got, expected) {
		t.Errorf("expected calls %v, got %v", expected, got)
	}
}

// AssertErrorCode checks that err encodes as a structured error with the
// expected code and returns its decoded form.
func AssertErrorCode(t *testing.T, err error, expectedCode string) map[string]any {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", expectedCode)
	}
	data, mErr := json.Marshal(err)
	if mErr != nil {
		t.Fatalf("failed to encode error %v: %v", err, mErr)
	}
	var decoded map[string]any
	if uErr := json.Unmarshal(data, &decoded); uErr != nil {
		t.Fatalf("failed to decode error %s: %v", data, uErr)
	}
	if decoded["code"] != expectedCode {
		t.Errorf("expected error code %s, got %v (%v)", expectedCode, decoded["code"], err)
	}
	return decoded
}
