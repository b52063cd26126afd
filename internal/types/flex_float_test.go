package types

import (
	"encoding/json"
	"testing"
)

func TestFlexFloat64_Number(t *testing.T) {
	var f FlexFloat64
	if err := json.Unmarshal([]byte(`2.5`), &f); err != nil {
		t.Fatalf("Failed to unmarshal number: %v", err)
	}
	if f.Float64() != 2.5 {
		t.Errorf("Expected 2.5, got %v", f.Float64())
	}
}

func TestFlexFloat64_NumericString(t *testing.T) {
	var f FlexFloat64
	if err := json.Unmarshal([]byte(`" 3.25 "`), &f); err != nil {
		t.Fatalf("Failed to unmarshal numeric string: %v", err)
	}
	if f.Float64() != 3.25 {
		t.Errorf("Expected 3.25, got %v", f.Float64())
	}
}

func TestFlexFloat64_InvalidString(t *testing.T) {
	var f FlexFloat64
	if err := json.Unmarshal([]byte(`"a lot"`), &f); err == nil {
		t.Error("Expected error for non-numeric string")
	}
}

func TestFlexFloat64_WrongType(t *testing.T) {
	var f FlexFloat64
	if err := json.Unmarshal([]byte(`[1.5]`), &f); err == nil {
		t.Error("Expected error for array value")
	}
}

func TestFlexFloat64_Null(t *testing.T) {
	f := FlexFloat64(7)
	if err := json.Unmarshal([]byte(`null`), &f); err != nil {
		t.Fatalf("Failed to unmarshal null: %v", err)
	}
	if f.Float64() != 7 {
		t.Errorf("Expected null to leave value untouched, got %v", f.Float64())
	}
}

func TestFlexList_Scalar(t *testing.T) {
	var l FlexList[string]
	if err := json.Unmarshal([]byte(`"dinner"`), &l); err != nil {
		t.Fatalf("Failed to unmarshal scalar: %v", err)
	}
	if len(l) != 1 || l[0] != "dinner" {
		t.Errorf("Expected [dinner], got %v", l)
	}
}

func TestFlexList_Array(t *testing.T) {
	var l FlexList[string]
	if err := json.Unmarshal([]byte(`["lunch","dinner"]`), &l); err != nil {
		t.Fatalf("Failed to unmarshal array: %v", err)
	}
	if len(l) != 2 || l[0] != "lunch" || l[1] != "dinner" {
		t.Errorf("Expected [lunch dinner], got %v", l)
	}
}
