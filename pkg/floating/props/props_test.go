package props

import (
	"testing"

	"github.com/marcus/floatui/pkg/dom"
)

func TestMergeKeepsEveryHandlerInOrder(t *testing.T) {
	var calls []string
	first := New().On(OnClick, func(*dom.Event) { calls = append(calls, "first") })
	second := New().On(OnClick, func(*dom.Event) { calls = append(calls, "second") })
	user := New().On(OnClick, func(*dom.Event) { calls = append(calls, "user") })

	merged := Merge(Reference, user, first, second)

	doc := dom.NewDocument()
	btn := doc.Body.AppendChild(doc.CreateElement("button"))
	unbind := merged.Bind(btn)
	doc.ClickOn(btn, 0, 0, dom.Mouse)

	want := []string{"first", "second", "user"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}

	unbind()
	calls = nil
	doc.ClickOn(btn, 0, 0, dom.Mouse)
	if len(calls) != 0 {
		t.Errorf("handlers ran after unbind: %v", calls)
	}
}

func TestMergeAttributePrecedence(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		user   Props
		parts  []Props
		attr   string
		want   string
	}{
		{
			name:   "later contribution wins",
			target: Reference,
			parts:  []Props{New().With("role", "button"), New().With("role", "combobox")},
			attr:   "role",
			want:   "combobox",
		},
		{
			name:   "user override wins",
			target: Reference,
			user:   New().With("role", "menuitem"),
			parts:  []Props{New().With("role", "button")},
			attr:   "role",
			want:   "menuitem",
		},
		{
			name:   "floating defaults tabindex",
			target: Floating,
			attr:   "tabindex",
			want:   "-1",
		},
		{
			name:   "floating tabindex overridable",
			target: Floating,
			user:   New().With("tabindex", "0"),
			attr:   "tabindex",
			want:   "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Merge(tt.target, tt.user, tt.parts...).Attr(tt.attr)
			if got != tt.want {
				t.Errorf("%s = %q, want %q", tt.attr, got, tt.want)
			}
		})
	}

	if _, ok := Merge(Reference, Props{}).Attr("tabindex"); ok {
		t.Error("reference should not get a default tabindex")
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := New().With("role", "button").On(OnKeyDown, func(*dom.Event) {})
	Merge(Reference, New().With("role", "link"), base)
	if v, _ := base.Attr("role"); v != "button" {
		t.Errorf("contribution mutated: role = %q", v)
	}
	if len(base.Handlers[OnKeyDown]) != 1 {
		t.Error("contribution handlers mutated")
	}
}

type countingContributor struct{ set Set }

func (c countingContributor) Props() Set { return c.set }

func TestInteractionsAggregate(t *testing.T) {
	fired := 0
	a := countingContributor{Set{Reference: New().On(OnFocus, func(*dom.Event) { fired++ })}}
	b := Static(Set{
		Reference: New().On(OnFocus, func(*dom.Event) { fired++ }),
		Floating:  New().With("role", "dialog"),
		Item:      New().With("role", "option"),
	})
	in := Use(a, nil, b)

	ref := in.ReferenceProps(New())
	ref.Call(OnFocus, &dom.Event{Type: dom.Focus})
	if fired != 2 {
		t.Errorf("fired = %d, want 2", fired)
	}
	if role, _ := in.FloatingProps(New()).Attr("role"); role != "dialog" {
		t.Errorf("floating role = %q, want dialog", role)
	}
	if role, _ := in.ItemProps(New()).Attr("role"); role != "option" {
		t.Errorf("item role = %q, want option", role)
	}
}

func TestBindRemovesEmptyAttributes(t *testing.T) {
	doc := dom.NewDocument()
	el := doc.Body.AppendChild(doc.CreateElement("div"))
	el.SetAttr("aria-activedescendant", "x")
	New().With("aria-activedescendant", "").With("role", "listbox").Bind(el)
	if el.HasAttr("aria-activedescendant") {
		t.Error("empty value should remove the attribute")
	}
	if el.Role() != "listbox" {
		t.Errorf("role = %q, want listbox", el.Role())
	}
}
