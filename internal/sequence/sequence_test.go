package sequence

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantID   string
		wantDesc string
	}{
		{"id only", "read1", "read1", ""},
		{"id and description", "read1 sample=A lane=2", "read1", "sample=A lane=2"},
		{"tab separated", "read1\tdesc", "read1", "desc"},
		{"surrounding space", "  read1  ", "read1", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, desc := SplitHeader(tt.header)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestRecordHeader(t *testing.T) {
	r := NewRecord("r1 some description", "acgt", "")
	assert.Equal(t, "r1", r.ID)
	assert.Equal(t, "some description", r.Description)
	assert.Equal(t, "r1 some description", r.Header())
	assert.Equal(t, "ACGT", r.Upper())
	assert.Equal(t, "acgt", r.Seq, "original case is preserved")
	assert.False(t, r.HasQuality())
}

func TestRecordValidate(t *testing.T) {
	ok := NewRecord("r1", "ACGT", "IIII")
	require.NoError(t, ok.Validate())

	fasta := NewRecord("r2", "ACGT", "")
	require.NoError(t, fasta.Validate())

	bad := NewRecord("r3", "ACGT", "II")
	err := bad.Validate()
	require.Error(t, err)
	var qerr *QualityLengthError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, 4, qerr.SeqLen)
	assert.Equal(t, 2, qerr.QualLen)
}

func TestReverseComplement(t *testing.T) {
	tests := []struct {
		name     string
		sequence string
		want     string
	}{
		{"ATGC", "ATGC", "GCAT"},
		{"palindrome", "GAATTC", "GAATTC"},
		{"simple", "AAGT", "ACTT"},
		{"lower case", "aagt", "actt"},
		{"ambiguous passes through", "ANGT", "ACNT"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReverseComplement(tt.sequence))
		})
	}
}

func TestReverseComplementInvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	bases := []byte("ACGT")
	for n := 0; n < 200; n++ {
		buf := make([]byte, rng.Intn(64))
		for i := range buf {
			buf[i] = bases[rng.Intn(4)]
		}
		s := string(buf)
		assert.Equal(t, s, ReverseComplement(ReverseComplement(s)))
	}
}

func TestCountBases(t *testing.T) {
	counts := CountBases("AATTTGGGCCCCNa")
	assert.Equal(t, 3, counts.A)
	assert.Equal(t, 4, counts.C)
	assert.Equal(t, 3, counts.G)
	assert.Equal(t, 3, counts.T)
	assert.Equal(t, 1, counts.Other)
	assert.Equal(t, 14, counts.Total())
}

func TestGCContent(t *testing.T) {
	assert.InDelta(t, 0.5, GCContent("ATGC"), 0.0001)
	assert.InDelta(t, 1.0, GCContent("gcgc"), 0.0001)
	assert.InDelta(t, 0.0, GCContent(""), 0.0001)
}
