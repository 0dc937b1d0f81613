package layout

import (
	"math"
	"testing"
)

func TestGenerate_ItemCounts(t *testing.T) {
	cfg := DefaultConfig()
	l := Generate(cfg, []string{"a.jpg", "b.jpg", "c.jpg"})

	wantOrnaments := cfg.BaubleCount + cfg.FlakeCount + 2*cfg.RibbonCount + cfg.LightCount
	if got := l.Len(); got != wantOrnaments+3 {
		t.Errorf("Len() = %d, want %d", got, wantOrnaments+3)
	}

	if got := len(l.PhotoIDs()); got != 3 {
		t.Errorf("PhotoIDs() has %d ids, want 3", got)
	}
}

func TestGenerate_AssembledPosesDeterministic(t *testing.T) {
	cfg := DefaultConfig()

	a := Generate(cfg, nil)
	b := Generate(cfg, nil)

	itemsA := a.Items()
	itemsB := b.Items()

	if len(itemsA) != len(itemsB) {
		t.Fatalf("item count mismatch: %d vs %d", len(itemsA), len(itemsB))
	}

	// Assembled poses are pure functions of the constants; only the
	// dispersed poses carry random components.
	for i := range itemsA {
		if itemsA[i].ID != itemsB[i].ID {
			t.Fatalf("id mismatch at %d: %s vs %s", i, itemsA[i].ID, itemsB[i].ID)
		}
		if itemsA[i].Assembled != itemsB[i].Assembled {
			t.Errorf("%s: assembled pose differs between generations: %v vs %v",
				itemsA[i].ID, itemsA[i].Assembled, itemsB[i].Assembled)
		}
	}
}

func TestGenerate_DispersedPosesBounded(t *testing.T) {
	cfg := DefaultConfig()
	l := Generate(cfg, []string{"a.jpg"})

	for _, it := range l.Items() {
		p := it.Dispersed

		if it.Kind == KindPhoto {
			// Photos sit on the fixed-radius ring with bounded jitter
			r := math.Sqrt(float64(p.X()*p.X() + p.Z()*p.Z()))
			if math.Abs(r-float64(cfg.PhotoRingRadius)) > 1e-3 {
				t.Errorf("%s: ring radius = %f, want %f", it.ID, r, cfg.PhotoRingRadius)
			}
			if p.Y() < 4-1.2 || p.Y() > 4+1.2 {
				t.Errorf("%s: vertical jitter out of bounds: %f", it.ID, p.Y())
			}
			continue
		}

		if p.X() < -cfg.ScatterRadius || p.X() > cfg.ScatterRadius {
			t.Errorf("%s: dispersed X out of bounds: %f", it.ID, p.X())
		}
		if p.Z() < -cfg.ScatterRadius || p.Z() > cfg.ScatterRadius {
			t.Errorf("%s: dispersed Z out of bounds: %f", it.ID, p.Z())
		}
		if p.Y() < 1 || p.Y() > 1+cfg.ScatterHeight {
			t.Errorf("%s: dispersed Y out of bounds: %f", it.ID, p.Y())
		}
	}
}

func TestGenerate_AssembledHeightsSpanTree(t *testing.T) {
	cfg := DefaultConfig()
	l := Generate(cfg, nil)

	for _, it := range l.Items() {
		y := it.Assembled.Y()
		if y < 0 || y > cfg.TreeHeight {
			t.Errorf("%s: assembled height %f outside [0, %f]", it.ID, y, cfg.TreeHeight)
		}
	}
}

func TestGenerate_RadiusShrinksWithHeight(t *testing.T) {
	cfg := DefaultConfig()
	l := Generate(cfg, nil)

	// Compare a low bauble against a high one; the layer kick is small
	// relative to the base radius so the cone shape must dominate.
	low, ok := l.Item("bauble-0")
	if !ok {
		t.Fatal("bauble-0 missing")
	}
	high, ok := l.Item("bauble-230")
	if !ok {
		t.Fatal("bauble-230 missing")
	}

	radius := func(i Item) float64 {
		return math.Sqrt(float64(i.Assembled.X()*i.Assembled.X() + i.Assembled.Z()*i.Assembled.Z()))
	}

	if radius(high) >= radius(low) {
		t.Errorf("radius should shrink with height: low=%f high=%f", radius(low), radius(high))
	}
}

func TestRegeneratePhotos_PreservesOrnaments(t *testing.T) {
	cfg := DefaultConfig()
	l := Generate(cfg, []string{"a.jpg", "b.jpg"})

	before := make(map[string]Item)
	for _, it := range l.Items() {
		if it.Kind != KindPhoto {
			before[it.ID] = it
		}
	}

	l.RegeneratePhotos([]string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"})

	if got := len(l.PhotoIDs()); got != 4 {
		t.Fatalf("PhotoIDs() has %d ids after regenerate, want 4", got)
	}

	for _, it := range l.Items() {
		if it.Kind == KindPhoto {
			continue
		}
		prev, ok := before[it.ID]
		if !ok {
			t.Errorf("unexpected new ornament %s", it.ID)
			continue
		}
		if prev.Assembled != it.Assembled || prev.Dispersed != it.Dispersed {
			t.Errorf("%s: ornament poses changed during photo regeneration", it.ID)
		}
	}
}

func TestRegeneratePhotos_StableIDs(t *testing.T) {
	cfg := DefaultConfig()
	l := Generate(cfg, []string{"a.jpg", "b.jpg", "c.jpg"})

	// Shrinking the collection keeps index-derived ids for survivors
	l.RegeneratePhotos([]string{"a.jpg", "b.jpg"})

	ids := l.PhotoIDs()
	want := []string{"photo-0", "photo-1"}
	if len(ids) != len(want) {
		t.Fatalf("PhotoIDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("PhotoIDs()[%d] = %s, want %s", i, ids[i], want[i])
		}
	}

	// The removed id no longer resolves
	if _, ok := l.Item("photo-2"); ok {
		t.Error("photo-2 should not resolve after the collection shrank")
	}
}

func TestItem_Lookup(t *testing.T) {
	l := Generate(DefaultConfig(), []string{"a.jpg"})

	if _, ok := l.Item("photo-0"); !ok {
		t.Error("photo-0 should resolve")
	}
	if _, ok := l.Item("bauble-0"); !ok {
		t.Error("bauble-0 should resolve")
	}
	if _, ok := l.Item("nope"); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestGenerate_RibbonsBraid(t *testing.T) {
	l := Generate(DefaultConfig(), nil)

	// The two spirals are phase-shifted: same index, different pose
	a, okA := l.Item("ribbon-a-10")
	b, okB := l.Item("ribbon-b-10")
	if !okA || !okB {
		t.Fatal("ribbon items missing")
	}
	if a.Assembled == b.Assembled {
		t.Error("the two ribbon spirals should not overlap at the same index")
	}
}
