package xero

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"/Date(1518685950940+0000)/", time.Date(2018, 2, 15, 9, 12, 30, 940e6, time.UTC)},
		{"/Date(1518685950940)/", time.Date(2018, 2, 15, 9, 12, 30, 940e6, time.UTC)},
		{"2009-05-27T00:00:00", time.Date(2009, 5, 27, 0, 0, 0, 0, time.UTC)},
		{"2024-01-31", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"2024-01-31T10:00:00Z", time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseDate("yesterday")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var v struct {
		Date    *Date `json:"date"`
		DueDate *Date `json:"dueDate"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"Date":"/Date(0+0000)/","DueDate":null}`), &v))
	require.NotNil(t, v.Date)
	assert.Nil(t, v.DueDate)

	out, err := json.Marshal(Date{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-03-01T00:00:00Z"`, string(out))

	out, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
