package models

import (
	"encoding/json"
	"testing"
)

func TestNormalizeComponentList_LegacyStrings(t *testing.T) {
	data := []byte(`["dubové dřevo","jasanové dřevo"]`)

	cl, err := NormalizeComponentList(data)
	if err != nil {
		t.Fatalf("NormalizeComponentList() error = %v", err)
	}
	if cl.Version != ComponentListVersion {
		t.Errorf("Version = %d, want %d", cl.Version, ComponentListVersion)
	}
	if len(cl.Items) != 2 {
		t.Fatalf("Items = %d entries, want 2", len(cl.Items))
	}
	if cl.Items[0].Name != "dubové dřevo" {
		t.Errorf("Items[0].Name = %q, want %q", cl.Items[0].Name, "dubové dřevo")
	}
	if !cl.Items[0].AvailableForRandom {
		t.Error("legacy string entry should be available for random rolls")
	}
}

func TestNormalizeComponentList_MixedLegacyShapes(t *testing.T) {
	data := []byte(`["dubové dřevo",{"name":"dračí blána","description":"vzácné jádro","available_for_random":false}]`)

	cl, err := NormalizeComponentList(data)
	if err != nil {
		t.Fatalf("NormalizeComponentList() error = %v", err)
	}
	if len(cl.Items) != 2 {
		t.Fatalf("Items = %d entries, want 2", len(cl.Items))
	}
	if cl.Items[1].Name != "dračí blána" || cl.Items[1].AvailableForRandom {
		t.Errorf("object entry not preserved: %+v", cl.Items[1])
	}
}

func TestNormalizeComponentList_CurrentShape(t *testing.T) {
	data := []byte(`{"version":1,"items":[{"name":"vrbové dřevo","description":"","available_for_random":true}]}`)

	cl, err := NormalizeComponentList(data)
	if err != nil {
		t.Fatalf("NormalizeComponentList() error = %v", err)
	}
	if len(cl.Items) != 1 || cl.Items[0].Name != "vrbové dřevo" {
		t.Errorf("current shape not passed through: %+v", cl)
	}
}

func TestNormalizeComponentList_Empty(t *testing.T) {
	for _, data := range [][]byte{nil, []byte(`[]`)} {
		cl, err := NormalizeComponentList(data)
		if err != nil {
			t.Fatalf("NormalizeComponentList(%q) error = %v", data, err)
		}
		if cl.Items == nil || len(cl.Items) != 0 {
			t.Errorf("NormalizeComponentList(%q) = %+v, want empty items", data, cl)
		}
	}
}

func TestNormalizeComponentList_Invalid(t *testing.T) {
	if _, err := NormalizeComponentList([]byte(`42`)); err == nil {
		t.Error("NormalizeComponentList(42) error = nil, want error")
	}
	if _, err := NormalizeComponentList([]byte(`[42]`)); err == nil {
		t.Error("NormalizeComponentList([42]) error = nil, want error")
	}
}

func TestComponentList_ScanAndValue(t *testing.T) {
	var cl ComponentList
	if err := cl.Scan([]byte(`["dubové dřevo"]`)); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(cl.Items) != 1 {
		t.Fatalf("Scan() items = %d, want 1", len(cl.Items))
	}

	v, err := cl.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}

	// The persisted value is always the versioned object shape.
	var out ComponentList
	if err := json.Unmarshal(v.([]byte), &out); err != nil {
		t.Fatalf("Value() produced invalid JSON: %v", err)
	}
	if out.Version != ComponentListVersion || len(out.Items) != 1 {
		t.Errorf("Value() = %+v, want versioned shape with 1 item", out)
	}
}

func TestComponentList_ScanNil(t *testing.T) {
	var cl ComponentList
	if err := cl.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error = %v", err)
	}
	if cl.Version != ComponentListVersion {
		t.Errorf("Scan(nil) version = %d, want %d", cl.Version, ComponentListVersion)
	}
}
