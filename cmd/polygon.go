package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/marcus/floatui/internal/output"
	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
	"github.com/marcus/floatui/pkg/floating/hover"
)

// parseNumbers splits "a,b,..." into exactly n numbers.
func parseNumbers(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma separated numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out[i] = v
	}
	return out, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// rectValue is a pflag.Value for "x,y,w,h".
type rectValue struct{ r *dom.Rect }

var _ pflag.Value = rectValue{}

func (v rectValue) String() string {
	if v.r == nil {
		return ""
	}
	return strings.Join([]string{formatNumber(v.r.X), formatNumber(v.r.Y), formatNumber(v.r.Width), formatNumber(v.r.Height)}, ",")
}

func (v rectValue) Set(s string) error {
	n, err := parseNumbers(s, 4)
	if err != nil {
		return err
	}
	if n[2] < 0 || n[3] < 0 {
		return fmt.Errorf("negative size in %q", s)
	}
	*v.r = dom.Rect{X: n[0], Y: n[1], Width: n[2], Height: n[3]}
	return nil
}

func (rectValue) Type() string { return "x,y,w,h" }

// pointValue is a pflag.Value for "x,y".
type pointValue struct{ p *hover.Point }

var _ pflag.Value = pointValue{}

func (v pointValue) String() string {
	if v.p == nil {
		return ""
	}
	return formatNumber(v.p.X) + "," + formatNumber(v.p.Y)
}

func (v pointValue) Set(s string) error {
	n, err := parseNumbers(s, 2)
	if err != nil {
		return err
	}
	*v.p = hover.Point{X: n[0], Y: n[1]}
	return nil
}

func (pointValue) Type() string { return "x,y" }

// sideValue is a pflag.Value restricted to the four sides.
type sideValue struct{ s *floating.Side }

var _ pflag.Value = sideValue{}

func (v sideValue) String() string {
	if v.s == nil {
		return ""
	}
	return string(*v.s)
}

func (v sideValue) Set(s string) error {
	switch side := floating.Side(strings.ToLower(s)); side {
	case floating.SideTop, floating.SideBottom, floating.SideLeft, floating.SideRight:
		*v.s = side
		return nil
	}
	return fmt.Errorf("side must be top, bottom, left or right, got %q", s)
}

func (sideValue) Type() string { return "side" }

type polygonFlags struct {
	side      floating.Side
	reference dom.Rect
	floating  dom.Rect
	leave     hover.Point
	cursor    hover.Point
	buffer    float64
	landed    bool
}

var polygonOpts = polygonFlags{
	side:      floating.SideBottom,
	reference: dom.Rect{X: 10, Y: 2, Width: 8, Height: 2},
	floating:  dom.Rect{X: 4, Y: 5, Width: 20, Height: 6},
	leave:     hover.Point{X: 14, Y: 4},
	cursor:    hover.Point{X: 14, Y: 4.5},
	buffer:    hover.DefaultBuffer,
}

func formatPolygon(poly hover.Polygon) string {
	parts := make([]string, len(poly))
	for i, p := range poly {
		parts[i] = "(" + formatNumber(p.X) + ", " + formatNumber(p.Y) + ")"
	}
	return strings.Join(parts, " ")
}

// classifyPolygon runs one safe polygon evaluation from the flags.
func classifyPolygon(o polygonFlags) (hover.Verdict, bool) {
	return hover.Classify(hover.Input{
		Side:          o.side,
		Reference:     o.reference,
		Floating:      o.floating,
		Leave:         o.leave,
		Cursor:        o.cursor,
		Buffer:        o.buffer,
		OverReference: o.reference.Contains(o.cursor.X, o.cursor.Y),
		OverFloating:  o.floating.Contains(o.cursor.X, o.cursor.Y),
		Landed:        o.landed,
	})
}

var polygonCmd = &cobra.Command{
	Use:     "polygon",
	Short:   "Evaluate the hover safe polygon for one pointer position",
	GroupID: "playground",
	Example: "  floatui polygon --side bottom --reference 10,2,8,2 --floating 4,5,20,6 --leave 14,4 --cursor 12,4.5",
	RunE: func(cmd *cobra.Command, args []string) error {
		o := polygonOpts
		if o.buffer < 0 {
			return fmt.Errorf("buffer must be non-negative, got %v", o.buffer)
		}
		verdict, landed := classifyPolygon(o)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "side:      %s\n", o.side)
		fmt.Fprintf(out, "reference: %s\n", o.reference)
		fmt.Fprintf(out, "floating:  %s\n", o.floating)
		fmt.Fprintf(out, "trough:    %s\n", formatPolygon(hover.Trough(o.side, o.reference, o.floating)))
		fmt.Fprintf(out, "polygon:   %s\n", formatPolygon(hover.NewPolygon(o.side, o.reference, o.floating, o.leave, o.buffer)))
		fmt.Fprintf(out, "verdict:   %s", verdict)
		if landed {
			fmt.Fprint(out, output.Muted(" (landed)"))
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	f := polygonCmd.Flags()
	f.Var(sideValue{&polygonOpts.side}, "side", "side of the reference the floating element sits on")
	f.Var(rectValue{&polygonOpts.reference}, "reference", "reference rectangle")
	f.Var(rectValue{&polygonOpts.floating}, "floating", "floating element rectangle")
	f.Var(pointValue{&polygonOpts.leave}, "leave", "where the pointer left the reference")
	f.Var(pointValue{&polygonOpts.cursor}, "cursor", "current pointer position")
	f.Float64Var(&polygonOpts.buffer, "buffer", hover.DefaultBuffer, "margin around the cursor apex")
	f.BoolVar(&polygonOpts.landed, "landed", false, "the pointer already reached the floating element")

	rootCmd.AddCommand(polygonCmd)
}
