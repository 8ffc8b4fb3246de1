package domain

import "testing"

func TestLocationValidate(t *testing.T) {
	tests := []struct {
		name    string
		loc     Location
		wantErr bool
	}{
		{"DeliveryPoint", Location{Name: "Hotel Roma", Kind: KindDeliveryPoint, Zone: "Centro", Priority: 3, DeliveryWindow: 1000}, false},
		{"SortingCenter", Location{Name: "Centro Principale", Kind: KindSortingCenter}, false},
		{"EmptyName", Location{Name: "  ", Kind: KindSortingCenter}, true},
		{"MissingZone", Location{Name: "X", Kind: KindDeliveryPoint, Priority: 1}, true},
		{"PriorityTooHigh", Location{Name: "X", Kind: KindDeliveryPoint, Zone: "Z", Priority: 6}, true},
		{"BadMinutes", Location{Name: "X", Kind: KindDeliveryPoint, Zone: "Z", Priority: 1, DeliveryWindow: 1075}, true},
		{"UnknownKind", Location{Name: "X"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.loc.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseEnums(t *testing.T) {
	k, err := ParseLocationKind("Sorting_Center")
	if err != nil || k != KindSortingCenter {
		t.Fatalf("ParseLocationKind = %v, %v", k, err)
	}
	if _, err := ParseLocationKind("warehouse"); err == nil {
		t.Fatal("expected error for unknown kind")
	}

	h, err := ParseHandlingType("")
	if err != nil || h != HandlingStandard {
		t.Fatalf("ParseHandlingType(\"\") = %v, %v", h, err)
	}
	if h, _ := ParseHandlingType("fragile"); h.String() != "fragile" {
		t.Fatalf("round trip fragile = %q", h.String())
	}
}
