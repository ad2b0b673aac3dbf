package unixtime

import "testing"

func TestFromDateTime(t *testing.T) {
	tests := []struct {
		year, month, day     int
		hour, minute, second int
		want                 int64
	}{
		{1970, 1, 1, 0, 0, 0, 0},
		{1969, 12, 31, 23, 59, 59, -1},
		{2000, 1, 1, 0, 0, 0, 946684800},
		{2000, 3, 1, 0, 0, 0, 951868800},   // after a leap day
		{2024, 3, 31, 1, 0, 0, 1711846800}, // EU DST start 2024
		{2038, 1, 19, 3, 14, 8, 2147483648}, // beyond 32-bit time_t
	}
	for _, tc := range tests {
		got := FromDateTime(tc.year, tc.month, tc.day, tc.hour, tc.minute, tc.second)
		if got != tc.want {
			t.Errorf("FromDateTime(%d-%02d-%02d %02d:%02d:%02d) = %d, want %d",
				tc.year, tc.month, tc.day, tc.hour, tc.minute, tc.second, got, tc.want)
		}
	}
}
