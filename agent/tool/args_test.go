package tool

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestIntArg(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     any
		want    int
		wantErr bool
	}{
		{"missing", nil, 1, false},
		{"float", 3.0, 3, false},
		{"int", 2, 2, false},
		{"json number", json.Number("4"), 4, false},
		{"string", " 5 ", 5, false},
		{"blank string", "", 1, false},
		{"fraction", 2.5, 0, true},
		{"word", "two", 0, true},
		{"bool", true, 0, true},
		{"huge float", 1e20, 0, true},
		{"huge negative float", -1e20, 0, true},
		{"huge json number", json.Number("100000000000000000000"), 0, true},
		{"huge string", "99999999999999999999", 0, true},
	}
	for _, tc := range cases {
		args := map[string]any{}
		if tc.raw != nil {
			args["quantity"] = tc.raw
		}
		got, err := intArg(args, "quantity", 1)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: intArg() error = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
		if !tc.wantErr && got != tc.want {
			t.Fatalf("%s: intArg() = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestDecimalArg(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  any
		want string
	}{
		{1500.0, "1500"},
		{"₹999.50", "999.5"},
		{json.Number("250"), "250"},
		{0.0, "0"},
		{-10.0, "0"},
		{"", "0"},
	}
	for _, tc := range cases {
		got, err := decimalArg(map[string]any{"max_price": tc.raw}, "max_price")
		if err != nil {
			t.Fatalf("decimalArg(%v) error = %v", tc.raw, err)
		}
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("decimalArg(%v) = %s, want %s", tc.raw, got, tc.want)
		}
	}

	if _, err := decimalArg(map[string]any{"max_price": "cheap"}, "max_price"); err == nil {
		t.Fatal("decimalArg(cheap) error = nil")
	}
}

func TestFormatting(t *testing.T) {
	t.Parallel()

	if got := formatPrice(decimal.NewFromInt(800), "INR"); got != "₹800" {
		t.Fatalf("formatPrice() = %q", got)
	}
	if got := formatPrice(decimal.RequireFromString("12.5"), "USD"); got != "USD 12.5" {
		t.Fatalf("formatPrice() = %q", got)
	}
	if got := truncate("short", 100); got != "short" {
		t.Fatalf("truncate() = %q", got)
	}
	long := strings.Repeat("é", 120)
	if got := truncate(long, 100); got != strings.Repeat("é", 100)+"..." {
		t.Fatalf("truncate() kept %d runes", len([]rune(got)))
	}
	if got := titleCase("laptop bags"); got != "Laptop Bags" {
		t.Fatalf("titleCase() = %q", got)
	}
}
