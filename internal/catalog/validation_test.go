package catalog

import "testing"

var testHeader = []string{
	ColProductCode, ColProductName, ColProductDescription, ColCost, ColStock, ColDiscontinued,
}

func record(code, name, desc, cost, stock, disc string) Record {
	rec, _ := MapRow(testHeader, []string{code, name, desc, cost, stock, disc})
	return rec
}

func TestMapRow(t *testing.T) {
	tests := []struct {
		name   string
		row    []string
		wantOK bool
	}{
		{"exact length", []string{"A1", "Widget", "desc", "12", "50", "yes"}, true},
		{"one field short", []string{"A1", "Widget", "desc", "12", "50"}, false},
		{"one field extra", []string{"A1", "Widget", "desc", "12", "50", "yes", "x"}, false},
		{"empty row", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := MapRow(testHeader, tt.row)
			if ok != tt.wantOK {
				t.Fatalf("MapRow() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				if rec != nil {
					t.Errorf("MapRow() returned record %v for mismatched row", rec)
				}
				return
			}
			for i, h := range testHeader {
				if rec[h] != tt.row[i] {
					t.Errorf("rec[%q] = %q, want %q", h, rec[h], tt.row[i])
				}
			}
		})
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"12", true},
		{"12.50", true},
		{"-3", true},
		{"+3", true},
		{".5", true},
		{"5.", true},
		{"1e3", true},
		{"1.5E-2", true},
		{" 12 ", true},
		{"", false},
		{"abc", false},
		{"12abc", false},
		{"£12", false},
		{"1,000", false},
		{"0x1A", false},
		{".", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsNumeric(tt.in); got != tt.want {
				t.Errorf("IsNumeric(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want SkipReason
	}{
		{"valid", record("A1", "Widget", "desc", "12", "50", "yes"), ""},
		{"missing description is fine", record("A1", "Widget", "", "12", "50", "no"), ""},
		{"missing code", record("", "Widget", "desc", "12", "50", "yes"), SkipMissingRequired},
		{"missing name", record("A1", "", "desc", "12", "50", "yes"), SkipMissingRequired},
		{"missing cost", record("A1", "Widget", "desc", "", "50", "yes"), SkipMissingRequired},
		{"zero cost counts as missing", record("A1", "Widget", "desc", "0", "50", "yes"), SkipMissingRequired},
		{"missing discontinued", record("A1", "Widget", "desc", "12", "50", ""), SkipMissingRequired},
		{"non numeric cost", record("A1", "Widget", "desc", "twelve", "50", "no"), SkipInvalidNumeric},
		{"non numeric stock", record("A1", "Widget", "desc", "12", "lots", "no"), SkipInvalidNumeric},
		{"empty stock", record("A1", "Widget", "desc", "12", "", "no"), SkipInvalidNumeric},
		{"header without cost column", Record{ColProductCode: "A1", ColProductName: "W", ColDiscontinued: "no"}, SkipMissingRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.rec); got != tt.want {
				t.Errorf("Validate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		cost  string
		stock string
		want  SkipReason
	}{
		{"normal item", "12", "50", ""},
		{"cheap and scarce", "3", "2", SkipLowValueLowStock},
		{"cheap but plentiful", "3", "10", ""},
		{"pricey enough, scarce", "5", "2", ""},
		{"4.99 truncates below 5", "4.99", "9.9", SkipLowValueLowStock},
		{"stock 9.99 truncates below 10", "4", "9.99", SkipLowValueLowStock},
		{"over ceiling", "1500", "5", SkipPriceCeiling},
		{"over ceiling high stock", "1000.01", "500", SkipPriceCeiling},
		{"exactly at ceiling", "1000", "5", ""},
		{"exponent cost", "1e4", "100", SkipPriceCeiling},
		{"negative stock with cheap cost", "2", "-5", SkipLowValueLowStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := record("A1", "Widget", "desc", tt.cost, tt.stock, "no")
			if got := Filter(rec); got != tt.want {
				t.Errorf("Filter(cost=%s, stock=%s) = %q, want %q", tt.cost, tt.stock, got, tt.want)
			}
		})
	}
}

func TestSkipReasonCodes(t *testing.T) {
	seen := make(map[string]SkipReason)
	for _, r := range SkipReasons {
		code := r.Code()
		if code == "IMP000" {
			t.Errorf("reason %q has no code", r)
		}
		if other, dup := seen[code]; dup {
			t.Errorf("code %s shared by %q and %q", code, r, other)
		}
		seen[code] = r
		if r.Message() == "" {
			t.Errorf("reason %q has no message", r)
		}
	}
	if got := SkipReason("bogus").Code(); got != "IMP000" {
		t.Errorf("unknown reason code = %q, want IMP000", got)
	}
}
