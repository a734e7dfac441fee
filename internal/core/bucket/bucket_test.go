package bucket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Frequency
		wantError bool
	}{
		{name: "month", input: "month", want: Month},
		{name: "year upper", input: "YEAR", want: Year},
		{name: "padded", input: " month ", want: Month},
		{name: "empty invalid", input: "", wantError: true},
		{name: "week invalid", input: "week", wantError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseFrequency(tc.input)
			if tc.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFor(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 35, 42, 0, time.UTC)

	require.Equal(t, Key{Year: 2026, Month: 3}, For(now, Month))
	require.Equal(t, Key{Year: 2026}, For(now, Year))
}

func TestPrevious(t *testing.T) {
	tests := []struct {
		name string
		in   Key
		want Key
	}{
		{name: "january wraps to december", in: Key{Year: 2024, Month: 1}, want: Key{Year: 2023, Month: 12}},
		{name: "december", in: Key{Year: 2024, Month: 12}, want: Key{Year: 2024, Month: 11}},
		{name: "mid year", in: Key{Year: 2024, Month: 7}, want: Key{Year: 2024, Month: 6}},
		{name: "year bucket", in: Key{Year: 2024}, want: Key{Year: 2023}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.in.Previous())
		})
	}
}

func TestKeyValidateAndString(t *testing.T) {
	require.NoError(t, Key{Year: 2024, Month: 2}.Validate())
	require.NoError(t, Key{Year: 2024}.Validate())
	require.Error(t, Key{Year: 0, Month: 2}.Validate())
	require.Error(t, Key{Year: 2024, Month: 13}.Validate())

	require.Equal(t, "2024-02", Key{Year: 2024, Month: 2}.String())
	require.Equal(t, "2024", Key{Year: 2024}.String())
}
