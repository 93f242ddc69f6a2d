package main

import "testing"

func TestParseItem(t *testing.T) {
	tests := []struct {
		arg     string
		name    string
		qty     int
		wantErr bool
	}{
		{arg: "Fries", name: "Fries", qty: 1},
		{arg: "Veg Burger=3", name: "Veg Burger", qty: 3},
		{arg: " Tea = 2 ", name: "Tea", qty: 2},
		{arg: "Tea=0", wantErr: true},
		{arg: "Tea=many", wantErr: true},
		{arg: "=2", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			name, qty, err := parseItem(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseItem(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if !tt.wantErr && (name != tt.name || qty != tt.qty) {
				t.Errorf("parseItem(%q) = %q, %d", tt.arg, name, qty)
			}
		})
	}
}
