package outlier

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/couchcryptid/geo-digest-service/internal/stats"
)

// Format renders the outlier section for field.
func (r Result) Format(field string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[OUTLIERS: %s]\n", field)
	if r.Summary.Count == 0 {
		b.WriteString("No valid values to test for outliers.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Bounds: IQR %s to %s | 2.5σ %s to %s\n",
		stats.FormatNumber(r.Bounds.IQRLower), stats.FormatNumber(r.Bounds.IQRUpper),
		stats.FormatNumber(r.Bounds.SigmaLower), stats.FormatNumber(r.Bounds.SigmaUpper))
	if r.Empty() {
		b.WriteString("No outliers detected.\n")
		return b.String()
	}
	writeRecords(&b, "HIGH", r.High)
	writeRecords(&b, "LOW", r.Low)
	return b.String()
}

func writeRecords(b *strings.Builder, kind string, rs []Record) {
	if len(rs) == 0 {
		return
	}
	fmt.Fprintf(b, "%s outliers (%d):\n", kind, len(rs))
	for i, rec := range rs {
		fmt.Fprintf(b, "%d. %s: %s", i+1, domain.Label(rec.Feature, rec.Index), stats.FormatNumber(rec.Value))
		if rec.SigmaDistance != nil {
			b.WriteString(" (" + strconv.FormatFloat(*rec.SigmaDistance, 'f', 1, 64) + "σ)")
		}
		b.WriteString("\n")
	}
}
