package launch

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLaunchDate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    time.Time
		wantErr bool
	}{
		{
			name: "long form",
			text: "January 4, 2028",
			want: time.Date(2028, time.January, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "ISO date",
			text: "2030-12-27",
			want: time.Date(2030, time.December, 27, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "RFC3339",
			text: "2028-01-04T12:30:00Z",
			want: time.Date(2028, time.January, 4, 12, 30, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			text:    "not a date",
			wantErr: true,
		},
		{
			name:    "empty",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLaunchDate(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "expected %v, got %v", tt.want, got)
		})
	}
}

func TestLaunchJSONCarriesLifecycleFlags(t *testing.T) {
	scheduled := SeedLaunch()

	data, err := json.Marshal(scheduled)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Equal(t, float64(100), wire["flightNumber"])
	assert.Equal(t, true, wire["upcoming"])
	assert.Equal(t, true, wire["success"])
	assert.Equal(t, []any{"ZTM", "NASA"}, wire["customers"])

	aborted := scheduled
	aborted.Status = StatusAborted

	data, err = json.Marshal(aborted)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Equal(t, false, wire["upcoming"])
	assert.Equal(t, false, wire["success"])
}

func TestLaunchJSONRoundTrip(t *testing.T) {
	original := SeedLaunch()

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Launch
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.FlightNumber, decoded.FlightNumber)
	assert.Equal(t, original.Mission, decoded.Mission)
	assert.Equal(t, original.Status, decoded.Status)
	assert.True(t, original.LaunchDate.Equal(decoded.LaunchDate))
}

func TestStatusFromFlagsNeverMixes(t *testing.T) {
	// A stored record with upcoming=false always decodes as aborted,
	// regardless of what the success flag claims.
	record := launchRecord{FlightNumber: 101, Upcoming: false, Success: true}
	assert.Equal(t, StatusAborted, record.launch().Status)

	record = launchRecord{FlightNumber: 101, Upcoming: true, Success: true}
	assert.Equal(t, StatusScheduled, record.launch().Status)
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int64
		limit     int64
		wantSkip  int64
		wantLimit int64
	}{
		{name: "defaults", page: 1, limit: 0, wantSkip: 0, wantLimit: 0},
		{name: "second page", page: 2, limit: 10, wantSkip: 10, wantLimit: 10},
		{name: "zero page clamps", page: 0, limit: 5, wantSkip: 0, wantLimit: 5},
		{name: "negative limit clamps", page: 3, limit: -1, wantSkip: 0, wantLimit: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit)
			assert.Equal(t, tt.wantSkip, p.Skip)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}
