package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPhred33(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		want    []int
		wantErr interface{}
	}{
		{"lowest", "!", []int{0}, nil},
		{"illumina", "II5", []int{40, 40, 20}, nil},
		{"nanopore high", "~", []int{93}, nil},
		{"empty", "", nil, &EmptyScoresError{}},
		{"space below range", "I I", nil, &InvalidEncodingError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FromPhred33(tt.encoded)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.IsType(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Values)
			assert.Equal(t, len(tt.want), s.Len())
		})
	}
}

func TestAverage(t *testing.T) {
	s, err := FromPhred33("I5")
	require.NoError(t, err)
	assert.InDelta(t, 30.0, s.Average(), 0.0001)

	assert.InDelta(t, 0.0, (&Scores{}).Average(), 0.0001)
}

func TestExpectedErrors(t *testing.T) {
	s, err := FromPhred33("+5") // Q10, Q20
	require.NoError(t, err)
	assert.InDelta(t, 0.11, s.ExpectedErrors(), 0.0001)
	assert.InDelta(t, 0.001, ErrorProbability(30), 1e-9)
}
