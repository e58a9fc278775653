package problemfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cmrx/cmrx"
	"github.com/katalvlaran/cmrx/order"
	"github.com/katalvlaran/cmrx/problemfile"
	"github.com/katalvlaran/cmrx/zone"
)

const crossingYAML = `
means:
  - [1, 2]
  - [2, 1]
weights_diag:
  - [1, 1]
  - [4, 4]
offset: 10
`

const crossingJSON = "{\n\t\"name\": \"from-json\",\n\t\"means\": [[1, 2], [2, 1]],\n\t\"weights\": [[[1, 0], [0, 1]], [[4, 0], [0, 4]]],\n\t\"covectors\": [[1, 1], [-1, -1]],\n\t\"infeasible_zones\": [2]\n}"

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad_YAMLWithDefaults(t *testing.T) {
	f, err := problemfile.Load(write(t, "crossing.yaml", crossingYAML))
	require.NoError(t, err)
	require.Equal(t, "crossing", f.Name)

	p, err := f.Problem()
	require.NoError(t, err)
	require.Equal(t, zone.Monotone(2), p.Covectors)
	require.Equal(t, []int{2}, p.InfeasibleZones)
	require.Equal(t, 4.0, p.Weights[1].At(1, 1))
	require.Zero(t, p.Weights[1].At(0, 1))

	res, err := cmrx.Solve(context.Background(), p, nil, cmrx.DefaultOptions())
	require.NoError(t, err)
	require.InDelta(t, 10.5, res.Objective, 1e-9)
}

func TestLoad_JSON(t *testing.T) {
	f, err := problemfile.Load(write(t, "p.json", crossingJSON))
	require.NoError(t, err)
	require.Equal(t, "from-json", f.Name)

	p, err := f.Problem()
	require.NoError(t, err)
	require.Equal(t, [][]int{{1, 1}, {-1, -1}}, p.Covectors)
	require.Equal(t, 4.0, p.Weights[1].At(0, 0))
}

func TestParse_IdentityWeightsAndBase(t *testing.T) {
	f, err := problemfile.Parse([]byte(`
means: [[1, 3, 2]]
base:
  - {var: 0, hi: 1, lo: 0}
covectors: [[1]]
infeasible_zones: [1]
`))
	require.NoError(t, err)
	require.Equal(t, []order.Constraint{{Var: 0, Hi: 1, Lo: 0}}, f.Base)

	p, err := f.Problem()
	require.NoError(t, err)
	require.Equal(t, 1.0, p.Weights[0].At(2, 2))
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"garbage":          {"means: [[1, x]]", problemfile.ErrParse},
		"no means":         {"offset: 1", problemfile.ErrSchema},
		"ragged means":     {"means: [[1, 2], [1]]", problemfile.ErrSchema},
		"covector entry":   {"means: [[1, 2]]\ncovectors: [[2]]", problemfile.ErrSchema},
		"covector length":  {"means: [[1, 2]]\ncovectors: [[1, 1]]", problemfile.ErrSchema},
		"negative diag":    {"means: [[1, 2]]\nweights_diag: [[1, -1]]", problemfile.ErrSchema},
		"asymmetric":       {"means: [[1, 2]]\nweights: [[[1, 2], [0, 1]]]", problemfile.ErrSchema},
		"both weight kind": {"means: [[1, 2]]\nweights: [[[1, 0], [0, 1]]]\nweights_diag: [[1, 1]]", problemfile.ErrSchema},
		"zero zone":        {"means: [[1, 2]]\ninfeasible_zones: [0]", problemfile.ErrSchema},
	}
	for name, tc := range cases {
		_, err := problemfile.Parse([]byte(tc.body))
		require.ErrorIs(t, err, tc.want, name)
	}
}

func TestProblem_ZoneOutOfRange(t *testing.T) {
	f, err := problemfile.Parse([]byte("means: [[1, 2], [2, 1]]\ninfeasible_zones: [9]"))
	require.NoError(t, err)
	_, err = f.Problem()
	require.ErrorIs(t, err, cmrx.ErrInvalidProblem)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := problemfile.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
