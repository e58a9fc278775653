package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cmrx/cmrx"
)

const crossing = `
name: crossing
means:
  - [1, 2]
  - [2, 1]
weights_diag:
  - [1, 1]
  - [4, 4]
offset: 10
`

type output struct {
	File   string `json:"file"`
	Name   string `json:"name"`
	Error  string `json:"error"`
	Result *struct {
		Objective     *float64    `json:"objective"`
		Means         [][]float64 `json:"means"`
		TargetReached bool        `json:"target_reached"`
		Iterations    []any       `json:"iterations"`
	} `json:"result"`
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

func problemFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "p.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func decode(t *testing.T, s string) []output {
	t.Helper()
	var outs []output
	require.NoError(t, json.Unmarshal([]byte(s), &outs))

	return outs
}

func TestSolveCmd(t *testing.T) {
	path := problemFile(t, crossing)
	s, err := execute(t, "solve", "--iterations", path, path)
	require.NoError(t, err)

	outs := decode(t, s)
	require.Len(t, outs, 2)
	for _, o := range outs {
		require.Equal(t, "crossing", o.Name)
		require.Empty(t, o.Error)
		require.NotNil(t, o.Result)
		require.InDelta(t, 10.5, *o.Result.Objective, 1e-9)
		require.InDelta(t, 1.5, o.Result.Means[0][0], 1e-7)
		require.NotEmpty(t, o.Result.Iterations)
	}
}

func TestSolveCmd_TargetAndJobs(t *testing.T) {
	path := problemFile(t, crossing)
	s, err := execute(t, "solve", "--jobs", "2", "--target", "11", "--seed", "survivors", path, path, path)
	require.NoError(t, err)
	for _, o := range decode(t, s) {
		require.True(t, o.Result.TargetReached)
		require.Nil(t, o.Result.Means)
		require.Nil(t, o.Result.Iterations)
	}
}

func TestSolveCmd_ReportsFailures(t *testing.T) {
	good := problemFile(t, crossing)
	bad := problemFile(t, "offset: 1")
	s, err := execute(t, "solve", good, bad)
	require.EqualError(t, err, "1 of 2 problems failed")

	outs := decode(t, s)
	require.Empty(t, outs[0].Error)
	require.Contains(t, outs[1].Error, "schema violation")
	require.Nil(t, outs[1].Result)
}

func TestSolveCmd_RejectsBadFlags(t *testing.T) {
	path := problemFile(t, crossing)

	_, err := execute(t, "solve", "--seed", "random", path)
	require.ErrorIs(t, err, cmrx.ErrBadOptions)

	_, err = execute(t, "solve", "--jobs", "0", path)
	require.Error(t, err)

	t.Setenv(envTolerance, "lots")
	_, err = execute(t, "solve", path)
	require.ErrorContains(t, err, envTolerance)

	_, err = execute(t, "solve", "--tolerance", "0.05", path)
	require.NoError(t, err, "flag wins over the environment")
}

func TestCheckCmd(t *testing.T) {
	s, err := execute(t, "check", problemFile(t, crossing))
	require.NoError(t, err)
	require.Contains(t, s, "crossing: conditions 0 and 1 violate zone -2 (signs [-1 1]")

	s, err = execute(t, "check", problemFile(t, "name: flat\nmeans: [[1, 2], [1, 2]]"))
	require.NoError(t, err)
	require.Equal(t, "flat: feasible\n", s)
}

func TestZonesCmd(t *testing.T) {
	s, err := execute(t, "zones", "--nvar", "2")
	require.NoError(t, err)
	require.Equal(t, "2\t[1 -1]\n", s)

	_, err = execute(t, "zones", "--nvar", "0")
	require.Error(t, err)
}

func TestLogLevelFromEnv(t *testing.T) {
	t.Setenv(envLogLevel, "shout")
	_, err := execute(t, "zones")
	require.Error(t, err)
}
