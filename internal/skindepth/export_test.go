package skindepth

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	curves := evaluateDefault(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, curves))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, curves.Len()+1)

	if diff := cmp.Diff(CSVHeader, rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	// Shortest formatting round-trips exactly.
	last := rows[len(rows)-1]
	got, err := strconv.ParseFloat(last[3], 64)
	require.NoError(t, err)
	assert.Equal(t, curves.DeltaDrude[curves.Len()-1], got)
}

func TestWriteJSON(t *testing.T) {
	curves, err := Evaluate(DefaultConstants(), Sweep{StartDecade: 9, EndDecade: 10, Points: 3})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, curves))

	var decoded Curves
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	if diff := cmp.Diff(*curves, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, buf.String(), `"delta_drude"`)
}

func TestSummary(t *testing.T) {
	curves := evaluateDefault(t)

	r := Summary(curves)
	assert.Equal(t, curves.At(0), r.First)
	assert.Equal(t, curves.At(curves.Len()-1), r.Last)
	require.NotNil(t, r.Crossover)
	assert.InEpsilon(t, DefaultConstants().Gamma, *r.Crossover, 0.05)
}

func TestSummary_NoCrossover(t *testing.T) {
	curves, err := Evaluate(DefaultConstants(), Sweep{StartDecade: 6, EndDecade: 9, Points: 10})
	require.NoError(t, err)

	r := Summary(curves)
	assert.Nil(t, r.Crossover)
}
