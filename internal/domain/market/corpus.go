// Package market computes statistics over an opportunity corpus snapshot.
//
// Functions here are pure: callers pass the snapshot in, nothing is cached
// or shared behind the caller's back.
package market

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/internsim/internal/domain/model"
)

// Corpus is an immutable, ordered snapshot of opportunity records.
type Corpus struct {
	Records []model.OpportunityRecord
	// Version fingerprints the record content; equal content yields equal
	// versions, so it doubles as a cache key.
	Version string
}

// NewCorpus snapshots records and fingerprints them.
func NewCorpus(records []model.OpportunityRecord) Corpus {
	return Corpus{Records: records, Version: Fingerprint(records)}
}

// Empty reports whether the corpus holds no records.
func (c Corpus) Empty() bool { return len(c.Records) == 0 }

// Fingerprint hashes every field of every record in order.
func Fingerprint(records []model.OpportunityRecord) string {
	d := xxhash.New()
	var b strings.Builder
	for _, r := range records {
		b.Reset()
		b.WriteString(r.ID)
		b.WriteByte(0)
		b.WriteString(r.Company)
		b.WriteByte(0)
		b.WriteString(r.Role)
		b.WriteByte(0)
		b.WriteString(string(r.Category))
		b.WriteByte(0)
		b.WriteString(r.Location)
		b.WriteByte(0)
		b.WriteString(r.RemoteMode)
		b.WriteByte(0)
		b.WriteString(strconv.Itoa(r.StipendMin))
		b.WriteByte(0)
		b.WriteString(strconv.Itoa(r.StipendMax))
		b.WriteByte(0)
		b.WriteString(strconv.Itoa(r.DurationMonths))
		for _, s := range r.Skills {
			b.WriteByte(0)
			b.WriteString(s)
		}
		b.WriteByte('\n')
		_, _ = d.WriteString(b.String())
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// InCategory returns the records of the given categories, in corpus order.
func InCategory(records []model.OpportunityRecord, cats ...model.Category) []model.OpportunityRecord {
	var out []model.OpportunityRecord
	for _, r := range records {
		for _, c := range cats {
			if r.Category == c {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// CategoryCount returns how many records belong to category.
func CategoryCount(records []model.OpportunityRecord, category model.Category) int {
	n := 0
	for _, r := range records {
		if r.Category == category {
			n++
		}
	}
	return n
}

// IsRemote reports whether a record carries a remote signal.
func IsRemote(r model.OpportunityRecord) bool {
	return strings.Contains(strings.ToLower(r.RemoteMode), "remote") ||
		strings.Contains(strings.ToLower(r.Location), "home")
}
