package memory

import (
	"context"
	"testing"

	"finboard/internal/alerts"
)

func TestMemoryStoreAppend(t *testing.T) {
	s := New()

	ref, err := s.Append(context.Background(), alerts.NewBudgetOverrunMessage(50000, 62500))
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}
	ref, err = s.Append(context.Background(), alerts.NewComplianceMessage("GST threshold crossed", "critical"))
	if err != nil || ref != "mem:2" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	all := s.All()
	if len(all) != 2 {
		t.Fatalf("stored %d alerts, want 2", len(all))
	}
	if all[0].Kind != alerts.KindBudgetOverrun || all[1].Kind != alerts.KindCompliance {
		t.Errorf("kinds = %v, %v", all[0].Kind, all[1].Kind)
	}
}

func TestMemoryStoreRejectsNil(t *testing.T) {
	s := New()
	if _, err := s.Append(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil message")
	}
}
