package cmd

import (
	"testing"

	"github.com/marcus/floatui/pkg/floating/listnav"
)

func TestRunTypeahead(t *testing.T) {
	labels := []string{"Apple", "Apricot", "Banana", "Cherry"}
	tests := []struct {
		name  string
		query string
		from  int
		want  []int
	}{
		{"prefix", "apr", listnav.None, []int{0, 0, 1}},
		{"repeat cycles", "aa", listnav.None, []int{0, 1}},
		{"starts after active", "a", 0, []int{1}},
		{"no match", "z", listnav.None, []int{listnav.None}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := runTypeahead(tt.query, labels, tt.from, false)
			if len(steps) != len(tt.want) {
				t.Fatalf("got %d steps, want %d", len(steps), len(tt.want))
			}
			for i, step := range steps {
				if step.Match != tt.want[i] {
					t.Errorf("step %d (%q) match = %d, want %d", i, step.Key, step.Match, tt.want[i])
				}
			}
		})
	}
}
