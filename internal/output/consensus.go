package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dara192/CrispRVariants/internal/consensus"
)

// WriteConsensus renders consensus alignments as paired reference and
// consensus rows, one block per variant.
func WriteConsensus(w io.Writer, alns []*consensus.Alignment) error {
	bw := bufio.NewWriter(w)
	for i, a := range alns {
		if i > 0 {
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
		header := fmt.Sprintf(">%s pos=%d\n", a.Label, a.Start)
		if _, err := bw.WriteString(header); err != nil {
			return err
		}
		if _, err := bw.WriteString(fmt.Sprintf("ref %s\n", a.RefAligned)); err != nil {
			return err
		}
		if _, err := bw.WriteString(fmt.Sprintf("alt %s\n", a.AltAligned)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
