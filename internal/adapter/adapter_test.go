package adapter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	set, err := Load(">A1 nanopore barcode\nacgtac\nGG\n>A2\nTTTTAAAC\n")
	require.NoError(t, err)
	require.Len(t, set, 4)

	assert.Equal(t, Adapter{Name: "A1", Seq: "ACGTACGG", Orientation: Forward}, set[0])
	assert.Equal(t, Adapter{Name: "A1", Seq: "CCGTACGT", Orientation: Reverse}, set[1])
	assert.Equal(t, Adapter{Name: "A2", Seq: "TTTTAAAC", Orientation: Forward}, set[2])
	assert.Equal(t, Adapter{Name: "A2", Seq: "GTTTAAAA", Orientation: Reverse}, set[3])
	assert.Equal(t, 2, set.Pairs())
}

func TestLoadSizeIsTwiceRecordCount(t *testing.T) {
	for n := 0; n < 10; n++ {
		var sb strings.Builder
		for i := 0; i < n; i++ {
			fmt.Fprintf(&sb, ">a%d\nACGTTGCA%d\n", i, i)
		}
		set, err := Load(sb.String())
		require.NoError(t, err)
		assert.Len(t, set, 2*n)
		for i, a := range set {
			if i%2 == 0 {
				assert.Equal(t, Forward, a.Orientation)
			} else {
				assert.Equal(t, Reverse, a.Orientation)
			}
		}
	}
}

func TestLoadSkipsEmptyRecords(t *testing.T) {
	set, err := Load(">empty\n>A1\nACGT\n>trailing\n")
	require.NoError(t, err)
	assert.Len(t, set, 2)
}

func TestLoadEmptyPanel(t *testing.T) {
	set, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, set)
	assert.Equal(t, 0, set.Pairs())
}

func TestLoadIgnoresSequenceBeforeFirstHeader(t *testing.T) {
	set, err := Load("GGGGGGGG\n>A1\nACGT\n")
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.Equal(t, "A1", set[0].Name)
	assert.Equal(t, "ACGT", set[0].Seq)
}

func TestLoadInvalidEncoding(t *testing.T) {
	_, err := Load(">A1\nAC\xfe\n")
	require.Error(t, err)
}

func TestOrientationString(t *testing.T) {
	assert.Equal(t, "forward", Forward.String())
	assert.Equal(t, "reverse-complement", Reverse.String())
	assert.Equal(t, "A1(forward)", Adapter{Name: "A1", Orientation: Forward}.String())
}
