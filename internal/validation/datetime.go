package validation

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

var (
	zonedLayouts = []string{
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04Z07:00",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

// ParseDatetime accepts ISO 8601 timestamps with or without seconds, fraction or
// zone, using either 'T' or a space as separator, and bare dates. Values without
// a zone are read in loc.
func ParseDatetime(value string, loc *time.Location) (time.Time, error) {
	s := normalizeDatetime(value)
	if s == "" {
		return time.Time{}, errors.New("empty datetime")
	}

	for _, layout := range zonedLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.Newf("unrecognised datetime %q", value)
}

// normalizeDatetime turns a space separator into 'T' and restores a '+'
// offset that query-string decoding turned into a space.
func normalizeDatetime(value string) string {
	s := strings.TrimSpace(value)
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	if len(s) > 10 {
		s = s[:10] + strings.Replace(s[10:], " ", "+", 1)
	}
	return s
}
