package propellant

import "testing"

func TestLookupKnown(t *testing.T) {
	cases := []struct {
		id   string
		want Entry
	}{
		{"RP1", Entry{ID: "RP1", K: 1.2, R: 287.0}},
		{"LH2", Entry{ID: "LH2", K: 1.4, R: 4124.0}},
		{"SRF", Entry{ID: "SRF", K: 1.2, R: 191.0}},
		{"N2O4", Entry{ID: "N2O4", K: 1.26, R: 320.0}},
		{" rp1 ", Entry{ID: "RP1", K: 1.2, R: 287.0}},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			got, ok := Lookup(tc.id)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tc.id)
			}
			if got.ID != tc.want.ID || got.K != tc.want.K || got.R != tc.want.R {
				t.Fatalf("Lookup(%q) = %+v, want %+v", tc.id, got, tc.want)
			}
			if !got.Valid() {
				t.Fatalf("entry %+v should be valid", got)
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, id := range []string{"LOX", "", "kerosene", "RP-1"} {
		got, ok := Lookup(id)
		if ok {
			t.Fatalf("Lookup(%q) unexpectedly resolved to %+v", id, got)
		}
		if got != (Entry{}) {
			t.Fatalf("Lookup(%q) returned non-zero entry %+v", id, got)
		}
		if got.Valid() {
			t.Fatalf("zero entry must not be valid")
		}
	}
}

func TestAllSorted(t *testing.T) {
	ids := IDs()
	want := []string{"LH2", "N2O4", "RP1", "SRF"}
	if len(ids) != len(want) {
		t.Fatalf("IDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("IDs() = %v, want %v", ids, want)
		}
	}
}
