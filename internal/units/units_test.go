package units

import "testing"

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		v    float64
		sys  System
		want Quantity
	}{
		{"blood oxygen", Fraction, 0.965, Metric, Quantity{96.5, "percent"}},
		{"distance metric", Distance, 5230, Metric, Quantity{5.23, "km"}},
		{"distance imperial", Distance, 5000, Imperial, Quantity{3.11, "mi"}},
		{"weight imperial", Weight, 70, Imperial, Quantity{154.3, "lb"}},
		{"weight metric", Weight, 72.46, Metric, Quantity{72.5, "kg"}},
		{"temperature imperial", Temperature, 37, Imperial, Quantity{98.6, "°F"}},
		{"height metric", Height, 1.78, Metric, Quantity{178, "cm"}},
		{"sleep hours", DurationHours, 27000, Metric, Quantity{7.5, "hours"}},
		{"mindful minutes", DurationMinutes, 630, Metric, Quantity{10.5, "minutes"}},
		{"speed metric", Speed, 1.25, Metric, Quantity{4.5, "km/h"}},
		{"water imperial", Volume, 2, Imperial, Quantity{67.6, "fl oz"}},
		{"steps", Count, 10432, Imperial, Quantity{10432, ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.kind, tt.v, tt.sys)
			if got != tt.want {
				t.Fatalf("Convert() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		v    float64
		sys  System
		want string
	}{
		{"blood oxygen", Fraction, 0.965, Metric, "97%"},
		{"steps grouped", Count, 10432, Metric, "10,432"},
		{"energy grouped", Energy, 2150.4, Metric, "2,150 kcal"},
		{"sleep", DurationHours, 27000, Metric, "7h 30m"},
		{"whole hours", DurationHours, 28800, Metric, "8h"},
		{"short distance metric", Distance, 850, Metric, "850 m"},
		{"long distance metric", Distance, 5230, Metric, "5.23 km"},
		{"short distance imperial", Distance, 100, Imperial, "328 ft"},
		{"long distance imperial", Distance, 8046.72, Imperial, "5 mi"},
		{"height imperial", Height, 1.778, Imperial, `5' 10"`},
		{"height metric", Height, 1.778, Metric, "178 cm"},
		{"heart rate", HeartRate, 57.6, Metric, "58 bpm"},
		{"temperature metric", Temperature, 36.64, Metric, "36.6 °C"},
		{"bmi", Scalar, 22.86, Metric, "22.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Display(tt.kind, tt.v, tt.sys); got != tt.want {
				t.Fatalf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[float64]string{
		0:     "0m",
		20:    "20s",
		2700:  "45m",
		3900:  "1h 5m",
		27000: "7h 30m",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestParseSystem(t *testing.T) {
	if s, ok := ParseSystem(" Imperial "); !ok || s != Imperial {
		t.Fatalf("ParseSystem(Imperial) = %q, %v", s, ok)
	}
	if _, ok := ParseSystem("furlongs"); ok {
		t.Fatal("expected unknown system to be rejected")
	}
}
