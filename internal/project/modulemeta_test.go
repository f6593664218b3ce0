package project

import "testing"

func TestIsValidAdaIdentifier(t *testing.T) {
	cases := map[string]bool{
		"Main":       true,
		"Text_IO":    true,
		"_Bad":       false,
		"":           false,
		"Bad__Name":  false,
		"Bad_":       false,
		"A1":         true,
		"1A":         false,
	}
	for name, want := range cases {
		if got := IsValidAdaIdentifier(name); got != want {
			t.Errorf("IsValidAdaIdentifier(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestNormalizeUnitName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "Main", want: "MAIN"},
		{name: "Parent.Child", want: "PARENT.CHILD"},
		{name: "Text_IO", want: "TEXT_IO"},
		{name: "Bad..Name", wantErr: true},
		{name: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizeUnitName(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("NormalizeUnitName(%q): expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NormalizeUnitName(%q) returned error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("NormalizeUnitName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestParentUnitName(t *testing.T) {
	if parent, ok := ParentUnitName("PARENT.CHILD"); !ok || parent != "PARENT" {
		t.Fatalf("ParentUnitName(PARENT.CHILD) = %q, %v", parent, ok)
	}
	if _, ok := ParentUnitName("MAIN"); ok {
		t.Fatalf("ParentUnitName(MAIN) should have no parent")
	}
}
