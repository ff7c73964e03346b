// Package naming encodes and decodes archive identity strings.
//
// Every archive the rotation manages is a single name of the form
//
//	<host>-<tier>-<timestamp>[-<suffix>]
//
// where the timestamp is fixed-width, so lexicographic order of names within
// one (host, tier, suffix) group equals chronological order.
package naming

import (
	"strings"
	"time"
)

// Tier is the retention class of an archive.
type Tier string

const (
	Daily   Tier = "daily"
	Monthly Tier = "monthly"
	Yearly  Tier = "yearly"
)

// Tiers lists all tiers in cascade order.
var Tiers = []Tier{Daily, Monthly, Yearly}

// TimestampLayout is the fixed-width archive timestamp format. Changing its
// width breaks the lexicographic-equals-chronological ordering guarantee.
const TimestampLayout = "20060102-150405"

// Timestamp formats t in the archive timestamp layout.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Archive is one parsed archive name.
type Archive struct {
	Host      string
	Tier      Tier
	Timestamp string
	Suffix    string // either "" or "-<stripped target path>"
	Name      string // the original listed name
}

// YearKey returns the 4-character year prefix of the timestamp.
func (a Archive) YearKey() string { return a.Timestamp[:4] }

// MonthKey returns the 6-character year+month prefix of the timestamp.
func (a Archive) MonthKey() string { return a.Timestamp[:6] }

// SuffixOf derives the name suffix for a backup target path: all path
// separators are stripped; if nothing remains (or only "."), the suffix is
// empty, otherwise it is "-" plus the stripped path.
//
// Two distinct targets can normalize to the same suffix; config validation
// rejects that at load time.
func SuffixOf(path string) string {
	stripped := strings.ReplaceAll(path, "/", "")
	if stripped == "" || stripped == "." {
		return ""
	}
	return "-" + stripped
}

// Name builds the canonical archive name for the given identity fields.
// suffix must already be in SuffixOf form (empty or leading "-").
func Name(host string, tier Tier, timestamp, suffix string) string {
	return host + "-" + string(tier) + "-" + timestamp + suffix
}

// DisplayPath normalizes a target path for messages only: it prefixes "/" if
// absent. It carries no semantic weight.
func DisplayPath(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

// Parse decodes a listed name into an Archive. Names that do not follow the
// host-tier-timestamp[-suffix] shape for the given host return ok == false;
// the store may hold archives we do not manage and those are simply ignored.
func Parse(name, host string) (Archive, bool) {
	rest, found := strings.CutPrefix(name, host+"-")
	if !found {
		return Archive{}, false
	}
	var tier Tier
	for _, t := range Tiers {
		if r, ok := strings.CutPrefix(rest, string(t)+"-"); ok {
			tier, rest = t, r
			break
		}
	}
	if tier == "" || len(rest) < len(TimestampLayout) {
		return Archive{}, false
	}
	ts := rest[:len(TimestampLayout)]
	if _, err := time.Parse(TimestampLayout, ts); err != nil {
		return Archive{}, false
	}
	suffix := rest[len(TimestampLayout):]
	if suffix != "" && !strings.HasPrefix(suffix, "-") {
		return Archive{}, false
	}
	return Archive{Host: host, Tier: tier, Timestamp: ts, Suffix: suffix, Name: name}, true
}

// ParseAll decodes an entire store listing, dropping names that do not parse.
func ParseAll(names []string, host string) []Archive {
	out := make([]Archive, 0, len(names))
	for _, n := range names {
		if a, ok := Parse(n, host); ok {
			out = append(out, a)
		}
	}
	return out
}

// InGroup reports whether the archive belongs to the (host, tier, suffix)
// group for the given target path.
func (a Archive) InGroup(host string, tier Tier, suffix string) bool {
	return a.Host == host && a.Tier == tier && a.Suffix == suffix
}
