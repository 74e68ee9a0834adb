package validate

import (
	"strings"
	"testing"
)

type sample struct {
	TargetID  string `validate:"notblank"`
	Direction string `validate:"required,direction"`
}

func TestStructAcceptsValidPayload(t *testing.T) {
	if err := Struct(sample{TargetID: "u-2", Direction: "right"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStructReportsFirstFailingField(t *testing.T) {
	err := Struct(sample{TargetID: "   ", Direction: "like"})
	if err == nil || !strings.Contains(err.Error(), "TargetID") {
		t.Fatalf("expected TargetID failure, got %v", err)
	}

	err = Struct(sample{TargetID: "u-2", Direction: "superlike"})
	if err == nil || !strings.Contains(err.Error(), "direction") {
		t.Fatalf("expected direction failure, got %v", err)
	}
}
