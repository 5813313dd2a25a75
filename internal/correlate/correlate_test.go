package correlate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motorlab/carscope/internal/dataset"
)

func matrix(t *testing.T) *Matrix {
	t.Helper()
	tbl, err := dataset.Builtin()
	require.NoError(t, err)
	require.NoError(t, tbl.Normalize(dataset.NominalColumns...))
	m, err := Compute(tbl)
	require.NoError(t, err)
	return m
}

func TestMatrixProperties(t *testing.T) {
	m := matrix(t)
	n := len(m.Columns)
	require.Equal(t, 6, n) // mpg, disp, hp, drat, wt, qsec after the recast

	for i := 0; i < n; i++ {
		require.Equal(t, 1.0, m.Values[i][i], "diagonal")
		for j := 0; j < n; j++ {
			require.Equal(t, m.Values[i][j], m.Values[j][i], "symmetry at (%d,%d)", i, j)
			require.GreaterOrEqual(t, m.Values[i][j], -1.0)
			require.LessOrEqual(t, m.Values[i][j], 1.0)
		}
	}
}

func TestWeightAgainstEconomy(t *testing.T) {
	m := matrix(t)
	r, err := m.At("mpg", "wt")
	require.NoError(t, err)
	// Heavier cars burn more fuel: strongly negative for this dataset.
	require.Less(t, r, 0.0)
	require.InDelta(t, -0.868, r, 0.01)
}

func TestTopPairs(t *testing.T) {
	m := matrix(t)
	pairs := m.TopPairs(3)
	require.Len(t, pairs, 3)
	for i := 1; i < len(pairs); i++ {
		require.GreaterOrEqual(t, abs(pairs[i-1].R), abs(pairs[i].R))
	}
}

func TestComputeRejectsConstantColumn(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "const.csv")
	csv := "mpg,cyl,disp,hp,drat,wt,qsec,vs,am,gear,carb\n"
	csv += "21,6,160,110,3.9,2.62,16.46,0,1,4,4\n"
	csv += "22,4,108,93,3.85,2.32,18.61,0,1,4,1\n"
	csv += "18,8,360,175,3.15,3.44,17.02,0,0,3,2\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	tbl, err := dataset.Load(path)
	require.NoError(t, err)
	_, err = Compute(tbl) // vs is constant
	require.ErrorContains(t, err, "constant")
}

func TestWriteGlyphPlot(t *testing.T) {
	m := matrix(t)
	path := filepath.Join(t.TempDir(), "glyphs.png")
	require.NoError(t, m.WriteGlyphPlot(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
