// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pagetype is the closed registry of page types: the ordered
// authoring workflow and the creation defaults for each type.
package pagetype

import (
	"encoding/json"
	"fmt"

	"github.com/sellkit/sellkit/internal/model"
)

// ErrUnknownPageType is returned when a workflow or default set is
// requested for a type outside the closed set. This is a programming
// error on the caller's side, not user input to recover from.
var ErrUnknownPageType = fmt.Errorf("unknown page type")

// Step is one step of a type's authoring workflow.
type Step struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Shared workflow steps. Steps that the editor shell has not built yet
// still appear in the workflow; rendering them as placeholders is the
// shell's concern, not the registry's.
var (
	stepBasics   = Step{ID: "basics", Label: "Basics"}
	stepProducts = Step{ID: "products", Label: "Products"}
	stepPackages = Step{ID: "packages", Label: "Packages"}
	stepPricing  = Step{ID: "pricing", Label: "Pricing Options"}
	stepProblem  = Step{ID: "problem", Label: "Problem & Solution"}
	stepStory    = Step{ID: "story", Label: "Your Story"}
	stepOpportun = Step{ID: "opportunity", Label: "Opportunity"}
	stepLeadForm = Step{ID: "lead-form", Label: "Lead Form"}
	stepCTAs     = Step{ID: "ctas", Label: "Call to Action"}
	stepPublish  = Step{ID: "publish", Label: "Review & Publish"}
)

// Workflow returns the ordered authoring steps for a page type.
// The order is stable and the list is never empty for a known type.
func Workflow(t model.PageType) ([]Step, error) {
	var steps []Step
	switch t {
	case model.PageTypeProduct:
		steps = []Step{stepBasics, stepProducts, stepPricing, stepCTAs, stepPublish}
	case model.PageTypeBundle:
		steps = []Step{stepBasics, stepProducts, stepPackages, stepCTAs, stepPublish}
	case model.PageTypeProblem:
		steps = []Step{stepBasics, stepProblem, stepProducts, stepCTAs, stepPublish}
	case model.PageTypeCapture:
		steps = []Step{stepBasics, stepLeadForm, stepCTAs, stepPublish}
	case model.PageTypeBrand:
		steps = []Step{stepBasics, stepStory, stepCTAs, stepPublish}
	case model.PageTypeRecruit:
		steps = []Step{stepBasics, stepStory, stepOpportun, stepLeadForm, stepPublish}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPageType, t)
	}

	out := make([]Step, len(steps))
	copy(out, steps)
	return out, nil
}

// Defaults holds the seed values applied when a document of a given
// type is created.
type Defaults struct {
	Title   string
	Payload json.RawMessage
	CTAs    []model.CTAButton
}

// DefaultsFor returns the creation defaults for a page type.
func DefaultsFor(t model.PageType) (Defaults, error) {
	var d Defaults
	switch t {
	case model.PageTypeProduct:
		d = Defaults{
			Title:   "Untitled Product Page",
			Payload: json.RawMessage(`{"headline":"","description":""}`),
		}
	case model.PageTypeBundle:
		d = Defaults{
			Title:   "Untitled Bundle Page",
			Payload: json.RawMessage(`{"headline":"","description":""}`),
		}
	case model.PageTypeProblem:
		d = Defaults{
			Title:   "Untitled Problem Page",
			Payload: json.RawMessage(`{"problem":"","solution":""}`),
		}
	case model.PageTypeCapture:
		d = Defaults{
			Title:   "Untitled Capture Page",
			Payload: json.RawMessage(`{"offer":"","fields":["name","phone"]}`),
		}
	case model.PageTypeBrand:
		d = Defaults{
			Title:   "Untitled Brand Page",
			Payload: json.RawMessage(`{"bio":"","links":[]}`),
		}
	case model.PageTypeRecruit:
		d = Defaults{
			Title:   "Untitled Recruiting Page",
			Payload: json.RawMessage(`{"pitch":"","steps":[]}`),
		}
	default:
		return Defaults{}, fmt.Errorf("%w: %q", ErrUnknownPageType, t)
	}

	d.CTAs = []model.CTAButton{
		{
			ID:         "cta-default",
			Label:      "Get Started",
			ActionType: model.CTAActionLink,
			Style:      model.CTAStylePrimary,
		},
	}
	return d, nil
}
