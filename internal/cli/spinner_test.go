package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

// captureOutput redirects stdout and stderr for the duration of a test.
func captureOutput(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = new(bytes.Buffer), new(bytes.Buffer)
	prevOut, prevErr := stdout, stderr
	stdout, stderr = out, errOut
	t.Cleanup(func() { stdout, stderr = prevOut, prevErr })
	return out, errOut
}

func TestSpinnerAnimates(t *testing.T) {
	_, errOut := captureOutput(t)

	s := newSpinner("Analyzing 1342")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	got := errOut.String()
	if !strings.Contains(got, spinnerFrames[0]) || !strings.Contains(got, "Analyzing 1342") {
		t.Errorf("stderr = %q, want first frame and message", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("stderr = %q, want line cleared on stop", got)
	}
	if !s.Cancelled() {
		t.Error("Cancelled() = false after Stop")
	}
}

func TestSpinnerStopsOnContext(t *testing.T) {
	captureOutput(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Fetching")
	s.Start()
	select {
	case <-s.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("spinner kept running after its context expired")
	}
	if !s.Cancelled() {
		t.Error("Cancelled() = false after timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureOutput(t)

	s := newSpinner("Rendering")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerFinalLine(t *testing.T) {
	tests := []struct {
		name string
		stop func(*Spinner, string)
		icon string
	}{
		{"success", (*Spinner).StopWithSuccess, iconSuccess},
		{"error", (*Spinner).StopWithError, iconError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := captureOutput(t)

			s := newSpinner("Working")
			s.Start()
			tt.stop(s, "Rendered pride.svg")

			if got := out.String(); got != tt.icon+" Rendered pride.svg\n" {
				t.Errorf("stdout = %q", got)
			}
		})
	}
}
