package models

import (
	"encoding/json"
	"testing"
)

func TestMetadataValue(t *testing.T) {
	meta := Metadata{
		"key1": "value1",
		"key2": 123,
	}

	value, err := meta.Value()
	if err != nil {
		t.Fatalf("Failed to get value: %v", err)
	}

	// Value should be JSON
	var result map[string]interface{}
	if err := json.Unmarshal(value.([]byte), &result); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if result["key1"] != "value1" {
		t.Errorf("Expected key1=value1, got %v", result["key1"])
	}
}

func TestMetadataScan(t *testing.T) {
	jsonData := []byte(`{"key1":"value1","key2":123}`)

	var meta Metadata
	if err := meta.Scan(jsonData); err != nil {
		t.Fatalf("Failed to scan: %v", err)
	}

	if meta["key1"] != "value1" {
		t.Errorf("Expected key1=value1, got %v", meta["key1"])
	}
}

func TestMetadataScanNil(t *testing.T) {
	var meta Metadata
	if err := meta.Scan(nil); err != nil {
		t.Fatalf("Failed to scan nil: %v", err)
	}

	if meta == nil {
		t.Error("Expected empty map after nil scan")
	}
}

func TestScriptComponentsRoundTrip(t *testing.T) {
	sc := ScriptComponents{
		Hook:         "Stop scrolling.",
		Bridge:       "Here's why this matters.",
		GoldenNugget: "The one thing nobody tells you.",
		WTA:          "Follow for part two.",
	}

	value, err := sc.Value()
	if err != nil {
		t.Fatalf("Failed to get value: %v", err)
	}

	var decoded ScriptComponents
	if err := decoded.Scan(value.([]byte)); err != nil {
		t.Fatalf("Failed to scan: %v", err)
	}

	if decoded != sc {
		t.Errorf("Expected %+v, got %+v", sc, decoded)
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleSuperAdmin, RoleCoach, RoleCreator} {
		if !r.Valid() {
			t.Errorf("Expected %q to be valid", r)
		}
	}

	if Role("admin").Valid() {
		t.Error("Expected unknown role to be invalid")
	}
}
