package lock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/rindful/internal/constants"
	rerrors "github.com/julianstephens/rindful/internal/errors"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func withProcesses(t *testing.T, running map[int]string) {
	t.Helper()
	orig := findProcessFunc
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := running[pid]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
	t.Cleanup(func() { findProcessFunc = orig })
}

func withPID(t *testing.T, pid int) {
	t.Helper()
	orig := getpid
	getpid = func() int { return pid }
	t.Cleanup(func() { getpid = orig })
}

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()
	withPID(t, 4242)
	withProcesses(t, map[int]string{4242: "rindful"})

	l, err := Acquire(dir, "import")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	content, _ := os.ReadFile(l.Path())
	if string(content) != "4242|import" {
		t.Errorf("lockfile content = %q", content)
	}

	if _, err := Acquire(dir, "wipe"); !errors.Is(err, rerrors.ErrLocked) {
		t.Errorf("second Acquire() error = %v, want ErrLocked", err)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(l.Path()); !os.IsNotExist(err) {
		t.Error("lockfile not removed")
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}
}

func TestAcquireReplacesStaleLock(t *testing.T) {
	tests := []struct {
		name    string
		content string
		running map[int]string
	}{
		{"dead process", "999|import", map[int]string{}},
		{"pid reused by another program", "999|import", map[int]string{999: "bash"}},
		{"malformed", "garbage", map[int]string{}},
		{"bad pid", "abc|import", map[int]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			withPID(t, 4242)
			withProcesses(t, tt.running)
			path := filepath.Join(dir, constants.WriterLockfileName)
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			l, err := Acquire(dir, "wipe")
			if err != nil {
				t.Fatalf("Acquire() error = %v", err)
			}
			defer l.Release()
			content, _ := os.ReadFile(path)
			if string(content) != "4242|wipe" {
				t.Errorf("lockfile content = %q", content)
			}
		})
	}
}

func TestReleaseLeavesForeignLock(t *testing.T) {
	dir := t.TempDir()
	withPID(t, 4242)
	withProcesses(t, map[int]string{})

	l, err := Acquire(dir, "import")
	if err != nil {
		t.Fatal(err)
	}
	// Another process replaced our lock after deciding it was stale.
	if err := os.WriteFile(l.Path(), []byte("777|restore"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(l.Path()); err != nil {
		t.Error("Release() removed a lock it does not own")
	}
}
