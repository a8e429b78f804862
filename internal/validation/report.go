// SPDX-License-Identifier: MPL-2.0

package validation

import (
	"slices"
	"time"
)

// Report is the full set of validation items from one pass, in check
// registration order, plus derived validity flags.
//
// A Report is an immutable value snapshot: construction copies the item
// slice and accessors return copies, so a published report can never be
// mutated, neither by the engine nor by a subscriber.
type Report struct {
	passID  string
	items   []Item
	created time.Time
}

// NewReport assembles a report from one validation pass. The items slice
// is copied; the caller may reuse it afterwards.
func NewReport(passID string, items []Item) Report {
	return Report{
		passID:  passID,
		items:   slices.Clone(items),
		created: time.Now(),
	}
}

// PassID identifies the validation pass that produced this report.
func (r Report) PassID() string { return r.passID }

// Created returns when the report was assembled.
func (r Report) Created() time.Time { return r.created }

// Items returns the validation items in check registration order.
func (r Report) Items() []Item {
	return slices.Clone(r.items)
}

// Item returns the named item and whether it is present.
func (r Report) Item(name ItemName) (Item, bool) {
	for _, item := range r.items {
		if item.Name == name {
			return item, true
		}
	}
	return Item{}, false
}

// Len returns the number of items in the report.
func (r Report) Len() int { return len(r.items) }

// OverallValid reports whether the installation is safe to operate:
// true iff no item has status error.
func (r Report) OverallValid() bool {
	for _, item := range r.items {
		if item.Status == StatusError {
			return false
		}
	}
	return true
}

// HasIssues reports whether any item needs user attention (warning or
// error). Warnings do not block operation but still surface here.
func (r Report) HasIssues() bool {
	for _, item := range r.items {
		if item.IsIssue() {
			return true
		}
	}
	return false
}

// Issues returns the items that need user attention, in report order.
func (r Report) Issues() []Item {
	var out []Item
	for _, item := range r.items {
		if item.IsIssue() {
			out = append(out, item)
		}
	}
	return out
}
