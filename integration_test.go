package forthvm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"forthvm/internal/control"
	"forthvm/internal/datapath"
	"forthvm/internal/translator"
)

// TestGoldenScenarios translates every testdata/*.fth fixture and checks
// its output against the matching *.want file, end to end: source text
// in, executed program output out. A fixture may also carry a
// testdata/<name>.in file, fed to the program as its input; fixtures
// without one run with no input, as before.
func TestGoldenScenarios(t *testing.T) {
	matches, err := filepath.Glob("testdata/*.fth")
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	for _, srcPath := range matches {
		srcPath := srcPath
		name := srcPath[len("testdata/") : len(srcPath)-len(".fth")]
		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(srcPath)
			require.NoError(t, err)
			want, err := os.ReadFile("testdata/" + name + ".want")
			require.NoError(t, err)

			var input string
			if in, err := os.ReadFile("testdata/" + name + ".in"); err == nil {
				input = string(in)
			} else {
				require.ErrorIs(t, err, os.ErrNotExist)
			}

			img, err := translator.Translate(string(src))
			require.NoError(t, err)

			dp := datapath.New(1<<10, input)
			cu := control.New(img, dp)
			_, err = cu.Run(10_000_000)
			require.ErrorIs(t, err, control.ErrHalt)
			require.Equal(t, string(want), dp.Output.String())
		})
	}
}

// TestRunIsDeterministic re-runs the same image twice and checks that
// both the output and the tick/instruction counts match exactly.
func TestRunIsDeterministic(t *testing.T) {
	img, err := translator.Translate(`variable x 1 x ! 1 x +! 1 x +! x @ .`)
	require.NoError(t, err)

	first := control.New(img, datapath.New(64, ""))
	_, err = first.Run(0)
	require.ErrorIs(t, err, control.ErrHalt)

	second := control.New(img, datapath.New(64, ""))
	_, err = second.Run(0)
	require.ErrorIs(t, err, control.ErrHalt)

	require.Equal(t, first.Ticks, second.Ticks)
	require.Equal(t, first.InstrCnt, second.InstrCnt)
	require.Equal(t, first.Data.Output.String(), second.Data.Output.String())
}
