package phone

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		ext     string
		raw     string
		want    string
		wantErr error
	}{
		{name: "malaysia leading zero stripped", ext: "60", raw: "0123456789", want: "60123456789"},
		{name: "malaysia already stripped", ext: "60", raw: "123456789", want: "60123456789"},
		{name: "malaysia nine digits min", ext: "60", raw: "812345678", want: "60812345678"},
		{name: "plus prefix on extension", ext: "+60", raw: "0123456789", want: "60123456789"},
		{name: "uk ten digits", ext: "44", raw: "7912345678", want: "447912345678"},
		{name: "usa ten digits", ext: "1", raw: "2025550123", want: "12025550123"},
		{name: "india ten digits", ext: "91", raw: "9876543210", want: "919876543210"},
		{name: "whitespace trimmed", ext: "60", raw: "  0123456789  ", want: "60123456789"},

		{name: "empty", ext: "60", raw: "", wantErr: ErrEmpty},
		{name: "spaces only", ext: "60", raw: "   ", wantErr: ErrEmpty},
		{name: "letters rejected", ext: "60", raw: "01234abc89", wantErr: ErrNotNumeric},
		{name: "dashes rejected", ext: "60", raw: "012-345-6789", wantErr: ErrNotNumeric},
		{name: "unknown extension", ext: "999", raw: "123456789", wantErr: ErrUnknownExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.ext, tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Normalize(%q, %q) error = %v, want %v", tt.ext, tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q, %q) unexpected error: %v", tt.ext, tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q, %q) = %q, want %q", tt.ext, tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize_LengthBoundaries(t *testing.T) {
	// Malaysia allows 9-11 subscriber digits: 9 passes, 8 fails.
	if got, err := Normalize("60", "812345678"); err != nil || got != "60812345678" {
		t.Errorf("9 digits with +60: got (%q, %v), want pass", got, err)
	}

	_, err := Normalize("60", "81234567")
	var le *LengthError
	if !errors.As(err, &le) {
		t.Fatalf("8 digits with +60: error = %v, want *LengthError", err)
	}
	if le.Digits != 8 || le.Ext.Code != "60" {
		t.Errorf("LengthError = %+v, want 8 digits against +60", le)
	}

	// Twelve digits is over Malaysia's max of 11.
	if _, err := Normalize("60", "123456789012"); !errors.As(err, &le) {
		t.Errorf("12 digits with +60: error = %v, want *LengthError", err)
	}
}

func TestNormalize_LeadingZeroVariantsAgree(t *testing.T) {
	a, err := Normalize("60", "0123456789")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Normalize("60", "123456789")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("leading-zero variant normalized differently: %q vs %q", a, b)
	}
}

func TestE164(t *testing.T) {
	if got := E164("60123456789"); got != "+60123456789" {
		t.Errorf("E164 = %q, want %q", got, "+60123456789")
	}
	if got := E164(""); got != "" {
		t.Errorf("E164(\"\") = %q, want empty", got)
	}
}

func TestLookupExtension(t *testing.T) {
	ext, ok := LookupExtension("44")
	if !ok || ext.Country != "United Kingdom" || ext.MinDigits != 10 || ext.MaxDigits != 13 {
		t.Errorf("LookupExtension(44) = %+v, %v", ext, ok)
	}
	if _, ok := LookupExtension("7"); ok {
		t.Error("LookupExtension(7) should not be supported")
	}
}
