package recurrence

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Start *Date `json:"start_date,omitempty"`
		End   *Date `json:"end_date"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"start_date":"2025-01-15","end_date":null}`), &p))
	require.NotNil(t, p.Start)
	assert.Equal(t, NewDate(2025, time.January, 15), *p.Start)
	assert.Nil(t, p.End)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start_date":"2025-01-15","end_date":null}`, string(out))

	var bad payload
	assert.Error(t, json.Unmarshal([]byte(`{"start_date":"15.01.2025"}`), &bad))
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    Date
		wantErr bool
	}{
		{name: "time", src: time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC), want: NewDate(2025, time.March, 2)},
		{name: "string", src: "2025-03-02", want: NewDate(2025, time.March, 2)},
		{name: "bytes", src: []byte("2025-03-02"), want: NewDate(2025, time.March, 2)},
		{name: "null", src: nil, want: Date{}},
		{name: "unsupported", src: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := d.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestDate_Value(t *testing.T) {
	v, err := NewDate(2025, time.March, 2).Value()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC), v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDate_Compare(t *testing.T) {
	a := NewDate(2024, time.December, 31)
	b := NewDate(2025, time.January, 1)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, int64(1), b.civilDays()-a.civilDays())
	assert.Equal(t, "2024-12-31", a.String())
}

func TestDate_EndOfDay(t *testing.T) {
	d := NewDate(2025, time.February, 28)
	end := d.EndOfDay(time.UTC)

	assert.Equal(t, d, DateOf(end))
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), end.Add(time.Nanosecond))
}
