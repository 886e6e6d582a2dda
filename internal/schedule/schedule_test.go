package schedule

import "testing"

func TestDailySpec(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "00:00", want: "0 0 0 * * *"},
		{in: "23:59", want: "0 59 23 * * *"},
		{in: "6:30", want: "0 30 6 * * *"},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "12", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := dailySpec(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("dailySpec(%q) expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("dailySpec(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("dailySpec(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
