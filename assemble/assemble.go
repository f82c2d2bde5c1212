// Package assemble joins translated chunks back into one document in the
// original chunk order.
package assemble

import (
	"errors"
	"fmt"
	"strings"

	"github.com/seatrans/seatrans/dispatch"
)

// Section labels used in bilingual output.
const (
	SourceLabel      = "### English ###"
	TranslationLabel = "### Translation ###"
)

// ErrIncompleteTable means the result table is missing a chunk. After a
// successful dispatch this indicates a bug, not a user error.
var ErrIncompleteTable = errors.New("result table is incomplete")

// Assemble concatenates the results for chunks 0..numChunks-1.
//
// Each chunk contributes "<translated>\n". In bilingual mode it contributes
//
//	### English ###
//	<original>
//
//	### Translation ###
//	<translated>
//
// instead.
func Assemble(table *dispatch.Table, numChunks int, bilingual bool) (string, error) {
	if table == nil {
		return "", fmt.Errorf("%w: no table", ErrIncompleteTable)
	}
	if table.Len() != numChunks {
		return "", fmt.Errorf("%w: table has %d slots, want %d", ErrIncompleteTable, table.Len(), numChunks)
	}

	var b strings.Builder
	for i := 0; i < numChunks; i++ {
		res, ok := table.Get(i)
		if !ok {
			return "", fmt.Errorf("%w: chunk %d missing", ErrIncompleteTable, i)
		}
		if bilingual {
			b.WriteString(SourceLabel)
			b.WriteByte('\n')
			b.WriteString(strings.TrimSpace(res.Original))
			b.WriteString("\n\n")
			b.WriteString(TranslationLabel)
			b.WriteByte('\n')
		}
		b.WriteString(res.Translated)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
