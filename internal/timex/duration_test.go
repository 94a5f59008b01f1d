package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected time.Duration
		wantErr  bool
	}{
		{name: "string form", in: `"12s"`, expected: 12 * time.Second},
		{name: "nanoseconds form", in: `3000000000`, expected: 3 * time.Second},
		{name: "bad string", in: `"not-a-duration"`, wantErr: true},
		{name: "bad type", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 12 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"12s"`, string(b))
}
