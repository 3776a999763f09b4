package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTime_Scan(t *testing.T) {
	want := time.Date(2024, 3, 9, 10, 11, 12, 345000000, time.UTC)

	cases := map[string]any{
		"time":          want,
		"driver format": "2024-03-09 10:11:12.345+00:00",
		"bytes":         []byte("2024-03-09 10:11:12.345+00:00"),
		"iso":           "2024-03-09T10:11:12.345Z",
	}

	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			var got Time

			assert.NoError(t, got.Scan(src))
			assert.True(t, want.Equal(got.Time), got.Time.String())
		})
	}

	var got Time
	assert.Error(t, got.Scan(42))
}
