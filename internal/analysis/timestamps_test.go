package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampParser(t *testing.T) {
	tp := NewTimestampParser()

	tests := []struct {
		name  string
		start string
		end   string
		want  int64
	}{
		{"offset", "2021-05-04T09:00:00+02:00", "2021-05-04T09:05:30+02:00", 330},
		{"mixed offsets", "2021-05-04T09:00:00+02:00", "2021-05-04T07:01:00Z", 60},
		{"offset without colon", "2021-05-04T09:00:00+0200", "2021-05-04T09:00:10+0200", 10},
		{"fractional seconds truncate", "2021-05-04T09:00:00.000Z", "2021-05-04T09:00:01.900Z", 1},
		{"naive", "2021-05-04 09:00:00", "2021-05-05 09:00:00", 86400},
		{"end before start", "2021-05-04T09:00:10Z", "2021-05-04T09:00:00Z", -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tp.ElapsedSeconds(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("garbage", func(t *testing.T) {
		_, err := tp.ElapsedSeconds("2021-05-04T09:00:00Z", "soon")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "end")
	})
}
