package catalog

import (
	"strings"
	"time"
)

// Enrich derives the timestamps for a filtered record. now is read once by
// the caller so the added and imported times are identical.
//
// A "yes" in Discontinued (any case) stamps DiscontinuedAt. An empty
// Discontinued is rewritten to "no" afterwards; any other value is kept.
func Enrich(rec Record, now time.Time) EnrichedRecord {
	out := EnrichedRecord{
		Record:     rec.Clone(),
		ImportedAt: now,
	}

	if strings.ToLower(rec.Get(ColDiscontinued)) == "yes" {
		at := now
		out.DiscontinuedAt = &at
	}

	if out.Record.Get(ColDiscontinued) == "" {
		out.Record[ColDiscontinued] = DiscontinuedDefault
	}

	return out
}
