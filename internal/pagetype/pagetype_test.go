// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package pagetype

import (
	"errors"
	"testing"

	"github.com/sellkit/sellkit/internal/model"
)

func TestWorkflowAllTypes(t *testing.T) {
	for _, pt := range model.AllPageTypes {
		steps, err := Workflow(pt)
		if err != nil {
			t.Fatalf("Workflow(%q): %v", pt, err)
		}
		if len(steps) == 0 {
			t.Errorf("Workflow(%q) is empty", pt)
		}

		// Every workflow starts at basics and ends at publishing.
		if steps[0].ID != "basics" {
			t.Errorf("Workflow(%q) starts with %q, want basics", pt, steps[0].ID)
		}
		if last := steps[len(steps)-1]; last.ID != "publish" {
			t.Errorf("Workflow(%q) ends with %q, want publish", pt, last.ID)
		}

		for _, s := range steps {
			if s.ID == "" || s.Label == "" {
				t.Errorf("Workflow(%q) contains incomplete step %+v", pt, s)
			}
		}
	}
}

func TestWorkflowStableOrder(t *testing.T) {
	first, err := Workflow(model.PageTypeBundle)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Workflow(model.PageTypeBundle)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("workflow length changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("step %d changed between calls: %+v vs %+v", i, first[i], second[i])
		}
	}

	// Mutating a returned workflow must not affect later calls.
	first[0].Label = "mutated"
	third, _ := Workflow(model.PageTypeBundle)
	if third[0].Label == "mutated" {
		t.Error("returned workflow shares backing array with registry")
	}
}

func TestWorkflowUnknownType(t *testing.T) {
	for _, bad := range []model.PageType{"", "landing", "PRODUCT"} {
		if _, err := Workflow(bad); !errors.Is(err, ErrUnknownPageType) {
			t.Errorf("Workflow(%q) = %v, want ErrUnknownPageType", bad, err)
		}
	}
}

func TestDefaultsForAllTypes(t *testing.T) {
	for _, pt := range model.AllPageTypes {
		d, err := DefaultsFor(pt)
		if err != nil {
			t.Fatalf("DefaultsFor(%q): %v", pt, err)
		}
		if d.Title == "" {
			t.Errorf("DefaultsFor(%q) has empty title", pt)
		}
		if len(d.Payload) == 0 {
			t.Errorf("DefaultsFor(%q) has no payload seed", pt)
		}
		if len(d.CTAs) == 0 {
			t.Errorf("DefaultsFor(%q) has no default CTA", pt)
		}
	}
}

func TestDefaultsForUnknownType(t *testing.T) {
	if _, err := DefaultsFor("newsletter"); !errors.Is(err, ErrUnknownPageType) {
		t.Errorf("DefaultsFor(newsletter) = %v, want ErrUnknownPageType", err)
	}
}
