package cmd

import (
	"testing"

	"github.com/marcus/floatui/internal/config"
	"github.com/marcus/floatui/internal/output"
	"github.com/marcus/floatui/pkg/monitor"
)

func TestOpenScene(t *testing.T) {
	scene, err := openScene(config.Default(), []string{"submenu"})
	if err != nil {
		t.Fatalf("openScene() error = %v", err)
	}
	defer scene.Close()

	if !scene.Widget(monitor.KindMenu).Ctx.Open() {
		t.Error("opening the submenu should open its menu first")
	}
	if !scene.Widget(monitor.KindSubmenu).Ctx.Open() {
		t.Error("submenu should be open")
	}
	chain := output.RenderOpenChain(output.FromTree(scene.Tree, scene.NodeLabel))
	if chain != "Menu › Share" {
		t.Errorf("open chain = %q, want %q", chain, "Menu › Share")
	}

	if _, err := openScene(config.Default(), []string{"popover"}); err == nil {
		t.Error("unknown widget should fail")
	}
}
