package domain

import "testing"

func TestPackageValidate(t *testing.T) {
	tests := []struct {
		name    string
		pkg     Package
		wantErr bool
	}{
		{
			name: "valid discounted package",
			pkg:  Package{Duration: DurationOneMonth, Price: 350, OriginalPrice: 450},
		},
		{
			name: "no original price",
			pkg:  Package{Duration: DurationLifetime, Price: 1500},
		},
		{
			name:    "price above original rejected",
			pkg:     Package{Duration: DurationOneMonth, Price: 500, OriginalPrice: 450},
			wantErr: true,
		},
		{
			name:    "negative price rejected",
			pkg:     Package{Duration: DurationOneMonth, Price: -1},
			wantErr: true,
		},
		{
			name:    "unknown duration rejected",
			pkg:     Package{Duration: "two_week", Price: 100},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pkg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDurationMonths(t *testing.T) {
	tests := []struct {
		duration string
		want     int
	}{
		{DurationOneMonth, 1},
		{DurationThreeMonth, 3},
		{DurationSixMonth, 6},
		{DurationLifetime, 0},
	}

	for _, tt := range tests {
		if got := DurationMonths(tt.duration); got != tt.want {
			t.Errorf("DurationMonths(%q) = %d, want %d", tt.duration, got, tt.want)
		}
	}
}

func TestDurationLabel(t *testing.T) {
	tests := []struct {
		duration string
		want     string
	}{
		{DurationOneMonth, "1 Month"},
		{DurationThreeMonth, "3 Months"},
		{DurationSixMonth, "6 Months"},
		{DurationLifetime, "Lifetime"},
		{"mystery", "mystery"},
	}

	for _, tt := range tests {
		if got := DurationLabel(tt.duration); got != tt.want {
			t.Errorf("DurationLabel(%q) = %q, want %q", tt.duration, got, tt.want)
		}
	}
}
