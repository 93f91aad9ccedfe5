package system

import (
	"bytes"
	"testing"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/cli/clitest"
)

func newTestApp(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	return clitest.New(t)
}
