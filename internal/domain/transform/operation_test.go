package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgproc-server-go/internal/platform/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Operation
		wantErr bool
	}{
		{name: "blur", input: "blur", want: OpBlur},
		{name: "noise reduction", input: "noise_reduction", want: OpNoiseReduction},
		{name: "case insensitive", input: "Edge_Detect", want: OpEdgeDetect},
		{name: "surrounding whitespace", input: " sharpen ", want: OpSharpen},
		{name: "unknown name", input: "invert", wantErr: true},
		{name: "empty name", input: "", wantErr: true},
		{name: "near miss", input: "blurr", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsKind(err, errors.KindUnsupportedOp))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_CoversAllOperations(t *testing.T) {
	for _, op := range All() {
		got, err := Parse(string(op))
		require.NoError(t, err)
		assert.Equal(t, op, got)
	}
}

func TestNames_ListsEveryOperation(t *testing.T) {
	names := Names()
	for _, op := range All() {
		assert.Contains(t, names, string(op))
	}
}
