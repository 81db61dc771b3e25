package sequence

import "fmt"

// QualityLengthError is returned when a FASTQ quality string does not match
// the length of its sequence.
type QualityLengthError struct {
	ID      string
	SeqLen  int
	QualLen int
}

func (e *QualityLengthError) Error() string {
	return fmt.Sprintf("record %q: sequence length %d does not match quality length %d",
		e.ID, e.SeqLen, e.QualLen)
}
