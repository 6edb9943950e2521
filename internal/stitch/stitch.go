// Package stitch regroups wrapped statement lines into one record per
// transaction, using the date-time token as the only boundary.
package stitch

import (
	"regexp"
	"strings"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
)

// AnchorPattern matches DD/MM/YYYY followed by HH:MM:SS. The separating
// space is optional because extraction sometimes glues the two.
const AnchorPattern = `(\d{2})/(\d{2})/(\d{4})\s*(\d{2}):(\d{2}):(\d{2})`

var anchorRe = regexp.MustCompile(AnchorPattern)

// HasAnchor reports whether line contains a date-time anchor anywhere.
func HasAnchor(line string) bool {
	return anchorRe.MatchString(line)
}

// Stitch groups lines into records. A record starts at an anchor line and
// runs until the next anchor line or end of input. Lines before the first
// anchor are discarded.
func Stitch(lines []string) []model.StitchedRecord {
	var (
		records []model.StitchedRecord
		buf     strings.Builder
		first   = -1
		last    = -1
	)

	flush := func() {
		if first < 0 || buf.Len() == 0 {
			return
		}
		records = append(records, model.StitchedRecord{
			Text:      buf.String(),
			FirstLine: first,
			LastLine:  last,
		})
		buf.Reset()
	}

	for i, line := range lines {
		if HasAnchor(line) {
			flush()
			first, last = i, i
			buf.WriteString(line)
			continue
		}
		if first < 0 {
			continue
		}
		if buf.Len() > 0 && line != "" {
			buf.WriteByte(' ')
		}
		buf.WriteString(line)
		last = i
	}
	flush()

	return records
}
