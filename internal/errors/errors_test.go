package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "storage unavailable",
			err:      Unavailable(errors.New("disk quota exceeded")),
			expected: "Error: storage unavailable: disk quota exceeded",
		},
		{
			name:     "malformed input",
			err:      Malformed("row %d: invalid date %q", 3, "2024/06/01"),
			expected: `Error: malformed input: row 3: invalid date "2024/06/01"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"unavailable", fmt.Errorf("get entry: %w", Unavailable(errors.New("boom"))), ErrStorageUnavailable},
		{"malformed", fmt.Errorf("import: %w", Malformed("missing column %s", "content")), ErrMalformedInput},
		{"stats", fmt.Errorf("%w: advance 2024-06-01: boom", ErrStatsUpdateFailed), ErrStatsUpdateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.sentinel)
			}
		})
	}

	if Unavailable(nil) != nil {
		t.Error("Unavailable(nil) should be nil")
	}
}

func TestFormatf(t *testing.T) {
	result := Formatf("failed to load %s", "entry 2024-06-01")
	if result != "Error: failed to load entry 2024-06-01" {
		t.Errorf("Formatf() = %q", result)
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(Unavailable(errors.New("engine not supported")))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		stderrStr := stderr.String()
		if !strings.Contains(stderrStr, "Error: storage unavailable: engine not supported") {
			t.Errorf("Fatal() stderr = %q, want storage error", stderrStr)
		}
		if !strings.Contains(stderrStr, "rindful init") {
			t.Errorf("Fatal() stderr = %q, want init hint", stderrStr)
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

// TestFatal_NilError tests that Fatal does nothing when passed a nil error
func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
