package executor

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		killed   bool
		exitCode int
		stderr   string
		want     Kind
	}{
		{name: "clean exit", want: KindOK},
		{name: "clean exit with whitespace stderr", stderr: " \n\t", want: KindOK},
		{name: "killed by outer deadline", killed: true, want: KindTimeLimit},
		{name: "timeout exit convention", exitCode: 124, want: KindTimeLimit},
		{name: "timed out marker", exitCode: 1, stderr: "process timed out after 3s", want: KindTimeLimit},
		{name: "timeout marker case insensitive", exitCode: 1, stderr: "ERROR: Timed Out", want: KindTimeLimit},
		{name: "timeout marker without space", exitCode: 1, stderr: "java.util.concurrent.TimeoutException", want: KindTimeLimit},
		{name: "marker wins over runtime signals", killed: false, exitCode: 1, stderr: "timed out", want: KindTimeLimit},
		{name: "non-zero exit", exitCode: 1, want: KindRuntime},
		{name: "segfault exit", exitCode: 139, want: KindRuntime},
		{name: "zero exit with stderr", stderr: "Traceback (most recent call last):", want: KindRuntime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.killed, tt.exitCode, tt.stderr); got != tt.want {
				t.Errorf("Classify(%v, %d, %q) = %v, want %v", tt.killed, tt.exitCode, tt.stderr, got, tt.want)
			}
		})
	}
}

func TestOutcomeFrom(t *testing.T) {
	t.Run("success trims trailing whitespace only", func(t *testing.T) {
		out := outcomeFrom(processResult{stdout: "  7 \n\n"}, 20*time.Millisecond)
		if !out.Success {
			t.Fatalf("expected success, got kind %v", out.Kind)
		}
		if out.Output != "  7" {
			t.Errorf("Output = %q, want %q", out.Output, "  7")
		}
		if out.Duration != 20*time.Millisecond {
			t.Errorf("Duration = %v, want 20ms", out.Duration)
		}
	})

	t.Run("failure carries trimmed stderr and no output", func(t *testing.T) {
		out := outcomeFrom(processResult{stdout: "partial", exitCode: 1, stderr: " boom \n"}, time.Millisecond)
		if out.Success {
			t.Fatal("expected failure")
		}
		if out.Kind != KindRuntime {
			t.Errorf("Kind = %v, want KindRuntime", out.Kind)
		}
		if out.Stderr != "boom" {
			t.Errorf("Stderr = %q, want %q", out.Stderr, "boom")
		}
		if out.Output != "" {
			t.Errorf("Output = %q, want empty", out.Output)
		}
	})
}
