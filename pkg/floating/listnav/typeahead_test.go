package listnav

import (
	"fmt"
	"testing"
	"time"

	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
)

type typeaheadFixture struct {
	sched   *floating.ManualScheduler
	ctx     *floating.Context
	ta      *Typeahead
	matches []int
}

func newTypeahead(labels []string, opts TypeaheadOptions) *typeaheadFixture {
	f := &typeaheadFixture{sched: floating.NewManualScheduler()}
	f.ctx = floating.New(floating.Options{Open: true, Scheduler: f.sched})
	opts.Enabled = true
	opts.OnMatch = func(i int) { f.matches = append(f.matches, i) }
	f.ta = NewTypeahead(f.ctx, opts)
	f.ta.SetLabels(labels)
	return f
}

func (f *typeaheadFixture) typeKeys(keys ...string) {
	for _, k := range keys {
		f.ta.OnKeyDown(&dom.Event{Type: dom.KeyDown, Key: k})
	}
}

var fruit = []string{"Apple", "Apricot", "Banana"}

func TestTypeaheadMatching(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		keys   []string
		want   []int
	}{
		{"first match", fruit, []string{"a"}, []int{0}},
		{"same letter cycles", fruit, []string{"a", "a", "a"}, []int{0, 1, 0}},
		{"multi character", fruit, []string{"b", "a"}, []int{2, 2}},
		{"case insensitive", fruit, []string{"B"}, []int{2}},
		{"no match", fruit, []string{"z"}, nil},
		{"doubled letter disables cycling", []string{"llama", "lemon"}, []string{"l", "l"}, []int{0, 0}},
		{"ignores named keys", fruit, []string{"ArrowDown", "Enter"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTypeahead(tt.labels, TypeaheadOptions{})
			f.typeKeys(tt.keys...)
			if fmt.Sprint(f.matches) != fmt.Sprint(tt.want) {
				t.Errorf("matches = %v, want %v", f.matches, tt.want)
			}
		})
	}
}

func TestTypeaheadResetsAfterDelay(t *testing.T) {
	var typing []bool
	f := newTypeahead(fruit, TypeaheadOptions{
		OnTypingChange: func(v bool) { typing = append(typing, v) },
	})
	f.typeKeys("b")
	if f.ta.Buffer() != "b" || !f.ta.Typing() || !f.ctx.Data.Typing {
		t.Fatalf("after one key: buffer %q typing %v", f.ta.Buffer(), f.ta.Typing())
	}

	f.sched.Advance(DefaultResetDelay - time.Millisecond)
	if f.ta.Buffer() != "b" {
		t.Errorf("buffer cleared early")
	}
	f.sched.Advance(time.Millisecond)
	if f.ta.Buffer() != "" || f.ta.Typing() {
		t.Errorf("after reset: buffer %q typing %v", f.ta.Buffer(), f.ta.Typing())
	}
	if fmt.Sprint(typing) != "[true false]" {
		t.Errorf("typing changes = %v, want [true false]", typing)
	}

	// The next search starts after the previous match.
	f.typeKeys("a")
	if got := f.matches[len(f.matches)-1]; got != 0 {
		t.Errorf("match after reset = %d, want 0", got)
	}
}

func TestTypeaheadKeepsTypingAcrossKeys(t *testing.T) {
	f := newTypeahead(fruit, TypeaheadOptions{})
	f.typeKeys("a")
	f.sched.Advance(DefaultResetDelay / 2)
	f.typeKeys("p", "r")
	f.sched.Advance(DefaultResetDelay / 2)
	if f.ta.Buffer() != "apr" {
		t.Errorf("Buffer = %q, want apr", f.ta.Buffer())
	}
	if got := f.matches[len(f.matches)-1]; got != 1 {
		t.Errorf("last match = %d, want 1", got)
	}
}

func TestTypeaheadSpaceContinuesSearch(t *testing.T) {
	f := newTypeahead([]string{"New York", "New Jersey", "Newark"}, TypeaheadOptions{})
	f.typeKeys("n", "e", "w")
	ev := &dom.Event{Type: dom.KeyDown, Key: " "}
	f.ta.OnKeyDown(ev)
	if !ev.DefaultPrevented() {
		t.Error("space inside a search should be consumed")
	}
	f.typeKeys("j")
	if got := f.matches[len(f.matches)-1]; got != 1 {
		t.Errorf("last match = %d, want 1", got)
	}
}

func TestTypeaheadModifiersAndIgnoredKeys(t *testing.T) {
	f := newTypeahead(fruit, TypeaheadOptions{IgnoreKeys: []string{"b"}})
	f.ta.OnKeyDown(&dom.Event{Type: dom.KeyDown, Key: "a", Ctrl: true})
	f.typeKeys("b")
	if len(f.matches) != 0 {
		t.Errorf("matches = %v, want none", f.matches)
	}
}

func TestTypeaheadStripsStyling(t *testing.T) {
	f := newTypeahead([]string{"\x1b[31mCherry\x1b[0m", "Date"}, TypeaheadOptions{})
	f.typeKeys("c", "h")
	if fmt.Sprint(f.matches) != "[0 0]" {
		t.Errorf("matches = %v, want [0 0]", f.matches)
	}
}

func TestTypeaheadFuzzyMatch(t *testing.T) {
	f := newTypeahead([]string{"Apple", "Banana"}, TypeaheadOptions{FindMatch: FuzzyMatch})
	f.typeKeys("b", "n", "n")
	if got := f.matches[len(f.matches)-1]; got != 1 {
		t.Errorf("last match = %d, want 1", got)
	}
}

func TestTypeaheadDrivesListNavigation(t *testing.T) {
	l := newList(3, DefaultOptions())
	l.items[0].Text = "Apple"
	l.items[1].Text = "Apricot"
	l.items[2].Text = "Banana"
	ta := NewTypeahead(l.ctx, TypeaheadOptions{
		Enabled:     true,
		OnMatch:     l.nav.Navigate,
		ActiveIndex: l.nav.Active,
	})
	ta.SetLabels(Labels(l.items))
	ta.Props().Floating.Bind(l.float)

	l.openWithKey()
	l.checkActive(t, "open", 0)
	l.press("b")
	l.checkActive(t, "typed b", 2)
	if l.doc.ActiveElement() != l.items[2] {
		t.Error("typeahead match should move focus")
	}
}
