package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Time scans DATETIME columns. The driver only converts to time.Time when it
// knows the declared column type, which RETURNING clauses do not always carry.
type Time struct {
	time.Time
}

func (t *Time) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	}

	return fmt.Errorf("sqlite: cannot scan %T into time", src)
}

func (t *Time) parse(raw string) error {
	raw = strings.TrimSuffix(raw, "Z")

	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}

	return fmt.Errorf("sqlite: cannot parse time %q", raw)
}
