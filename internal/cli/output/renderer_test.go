package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderer_PlainMode(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModePlain)

	r.Success("built %s", "cudf")
	r.Info("configuring")
	r.Error("step failed")
	r.Warning("missing compile database")

	assert.Contains(t, out.String(), "✓ built cudf")
	assert.Contains(t, out.String(), "• configuring")
	assert.Contains(t, errOut.String(), "✗ step failed")
	assert.Contains(t, errOut.String(), "! missing compile database")
}

func TestRenderer_AutoModeOnBufferIsPlain(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeAuto)

	r.Success("done")
	// A bytes.Buffer is not a TTY, so no ANSI escapes are emitted.
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestRenderer_Table(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModePlain)

	r.Table([]string{"PROJECT", "PHASE"}, [][]string{
		{"rmm", "cpp"},
		{"cudf", "python"},
	})

	s := out.String()
	assert.Contains(t, s, "PROJECT")
	assert.Contains(t, s, "rmm")
	assert.Contains(t, s, "cudf")
	assert.Contains(t, s, "python")
}
