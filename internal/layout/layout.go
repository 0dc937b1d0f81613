// Package layout procedurally generates the scene items and their two
// static target poses: assembled on the tree and dispersed for browsing.
package layout

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// GoldenAngle advances each item's angular position so consecutive items
// never line up vertically.
var GoldenAngle = math.Pi * (3 - math.Sqrt(5))

// Kind identifies the geometry an item is rendered with.
type Kind string

const (
	KindSphere Kind = "sphere"
	KindBox    Kind = "box"
	KindPhoto  Kind = "photo"
	KindMarker Kind = "marker"
)

// Material selects the emissive/animation policy applied by the engine.
type Material string

const (
	MaterialPlain    Material = "plain"
	MaterialMetallic Material = "metallic"
	MaterialGlow     Material = "glow"
	MaterialRibbon   Material = "ribbon"
)

// Item is one scene element with its two canonical target poses. Poses
// are fixed at generation time; the animation engine owns the live,
// continuously-blended transform derived from them.
type Item struct {
	ID           string
	Kind         Kind
	Material     Material
	Assembled    mgl32.Vec3
	Dispersed    mgl32.Vec3
	RotationSeed float32
	Scale        float32
	Color        string
	PhotoRef     string
}

// Config holds the procedural generation constants.
type Config struct {
	BaubleCount int
	FlakeCount  int
	RibbonCount int // per spiral; there are two
	LightCount  int

	TreeHeight float32
	BaseRadius float32

	// ScatterRadius and ScatterHeight bound the dispersed-pose sampling.
	ScatterRadius float32
	ScatterHeight float32

	// PhotoConeHeight is the height of the shorter cone the photo panels
	// assemble onto; PhotoRingRadius is the dispersed browsing ring.
	PhotoConeHeight float32
	PhotoRingRadius float32
}

// DefaultConfig returns the generation constants for the standard tree.
func DefaultConfig() Config {
	return Config{
		BaubleCount:     240,
		FlakeCount:      80,
		RibbonCount:     100,
		LightCount:      60,
		TreeHeight:      10,
		BaseRadius:      4.2,
		ScatterRadius:   12,
		ScatterHeight:   9,
		PhotoConeHeight: 6,
		PhotoRingRadius: 9,
	}
}

// Layer banding constants for the assembled helix.
const (
	layerEvery = 24
	layerKick  = 0.5
)

// Ribbon spiral constants.
const (
	ribbonTurns = 6.0
	braidFreq   = 3.0
	braidAmp    = 0.18
)

var palette = []string{
	"#c0392b", // red
	"#d4af37", // gold
	"#2e86c1", // blue
	"#f5f5f0", // ivory
	"#1e8449", // green
}

// Layout holds the generated scene items. The ornament subset is fixed
// for the lifetime of the layout; only the photo subset is regenerated
// when the photo collection changes.
type Layout struct {
	cfg       Config
	ornaments []Item
	photos    []Item
}

// Generate builds the full item list from the generation constants and
// the current photo references. Assembled poses are pure functions of the
// constants; dispersed poses carry bounded random components sampled once
// here and fixed thereafter.
func Generate(cfg Config, photoRefs []string) *Layout {
	l := &Layout{cfg: cfg}
	l.ornaments = append(l.ornaments, l.baubles()...)
	l.ornaments = append(l.ornaments, l.flakes()...)
	l.ornaments = append(l.ornaments, l.ribbon("a", 0)...)
	l.ornaments = append(l.ornaments, l.ribbon("b", math.Pi)...)
	l.ornaments = append(l.ornaments, l.lights()...)
	l.photos = l.photoItems(photoRefs)
	return l
}

// helixPose places index i of count items on the conical helical lattice.
// Height is sampled linearly across the tree height, the angle advances
// by the golden angle per index, and the radius shrinks linearly with
// height plus a modulo-based layer kick that forms visible tiers.
func (l *Layout) helixPose(i, count int, angularMult, radiusOffset float32) mgl32.Vec3 {
	t := float32(i) / float32(count)
	y := t * l.cfg.TreeHeight

	angle := GoldenAngle * float64(i) * float64(angularMult)

	r := l.cfg.BaseRadius*(1-t) + radiusOffset
	r += layerKick * float32(i%layerEvery) / layerEvery

	return mgl32.Vec3{
		r * float32(math.Cos(angle)),
		y,
		r * float32(math.Sin(angle)),
	}
}

// scatterPose samples one dispersed pose inside the configured bounds.
func (l *Layout) scatterPose() mgl32.Vec3 {
	return mgl32.Vec3{
		(rand.Float32()*2 - 1) * l.cfg.ScatterRadius,
		1 + rand.Float32()*l.cfg.ScatterHeight,
		(rand.Float32()*2 - 1) * l.cfg.ScatterRadius,
	}
}

func (l *Layout) baubles() []Item {
	items := make([]Item, 0, l.cfg.BaubleCount)
	for i := 0; i < l.cfg.BaubleCount; i++ {
		material := MaterialPlain
		if i%3 == 0 {
			material = MaterialMetallic
		}
		items = append(items, Item{
			ID:           fmt.Sprintf("bauble-%d", i),
			Kind:         KindSphere,
			Material:     material,
			Assembled:    l.helixPose(i, l.cfg.BaubleCount, 1, 0),
			Dispersed:    l.scatterPose(),
			RotationSeed: rand.Float32() * 2 * math.Pi,
			Scale:        0.2 + rand.Float32()*0.12,
			Color:        palette[i%len(palette)],
		})
	}
	return items
}

func (l *Layout) flakes() []Item {
	items := make([]Item, 0, l.cfg.FlakeCount)
	for i := 0; i < l.cfg.FlakeCount; i++ {
		items = append(items, Item{
			ID:           fmt.Sprintf("flake-%d", i),
			Kind:         KindBox,
			Material:     MaterialPlain,
			Assembled:    l.helixPose(i, l.cfg.FlakeCount, 2, 0.6),
			Dispersed:    l.scatterPose(),
			RotationSeed: rand.Float32() * 2 * math.Pi,
			Scale:        0.1 + rand.Float32()*0.06,
			Color:        "#f5f5f0",
		})
	}
	return items
}

// ribbon builds one of the two braided spirals. The two spirals share the
// cone but are phase-shifted by half a turn, and a sine perturbation on
// the radius makes them visually weave around each other.
func (l *Layout) ribbon(name string, phase float64) []Item {
	items := make([]Item, 0, l.cfg.RibbonCount)
	for i := 0; i < l.cfg.RibbonCount; i++ {
		t := float32(i) / float32(l.cfg.RibbonCount)
		angle := float64(t)*ribbonTurns*2*math.Pi + phase

		r := (l.cfg.BaseRadius + 0.25) * (1 - t)
		r += braidAmp * float32(math.Sin(angle*braidFreq+phase))

		items = append(items, Item{
			ID:       fmt.Sprintf("ribbon-%s-%d", name, i),
			Kind:     KindMarker,
			Material: MaterialRibbon,
			Assembled: mgl32.Vec3{
				r * float32(math.Cos(angle)),
				t * l.cfg.TreeHeight,
				r * float32(math.Sin(angle)),
			},
			Dispersed:    l.scatterPose(),
			RotationSeed: rand.Float32() * 2 * math.Pi,
			Scale:        0.12,
			Color:        "#d4af37",
		})
	}
	return items
}

func (l *Layout) lights() []Item {
	items := make([]Item, 0, l.cfg.LightCount)
	for i := 0; i < l.cfg.LightCount; i++ {
		items = append(items, Item{
			ID:           fmt.Sprintf("light-%d", i),
			Kind:         KindMarker,
			Material:     MaterialGlow,
			Assembled:    l.helixPose(i, l.cfg.LightCount, 3, -0.15),
			Dispersed:    l.scatterPose(),
			RotationSeed: rand.Float32() * 2 * math.Pi,
			Scale:        0.08,
			Color:        "#fff4c1",
		})
	}
	return items
}

// photoItems builds the photo subset. Ids are derived from the index so
// they stay stable across regeneration as long as the photo still exists.
// Assembled poses space the panels evenly around a shorter cone;
// dispersed poses sit evenly on a fixed-radius ring with bounded random
// vertical jitter.
func (l *Layout) photoItems(photoRefs []string) []Item {
	n := len(photoRefs)
	items := make([]Item, 0, n)
	for i, ref := range photoRefs {
		t := float32(i) / float32(max(n, 1))
		angle := 2 * math.Pi * float64(i) / float64(max(n, 1))

		coneR := (l.cfg.BaseRadius + 0.9) * (1 - t*0.55)
		assembled := mgl32.Vec3{
			coneR * float32(math.Cos(angle)),
			1.2 + t*l.cfg.PhotoConeHeight,
			coneR * float32(math.Sin(angle)),
		}

		dispersed := mgl32.Vec3{
			l.cfg.PhotoRingRadius * float32(math.Cos(angle)),
			4 + (rand.Float32()*2-1)*1.2,
			l.cfg.PhotoRingRadius * float32(math.Sin(angle)),
		}

		items = append(items, Item{
			ID:           fmt.Sprintf("photo-%d", i),
			Kind:         KindPhoto,
			Material:     MaterialPlain,
			Assembled:    assembled,
			Dispersed:    dispersed,
			RotationSeed: rand.Float32() * 2 * math.Pi,
			Scale:        1,
			Color:        "#ffffff",
			PhotoRef:     ref,
		})
	}
	return items
}

// RegeneratePhotos rebuilds the photo subset for a changed photo
// collection. The ornament subset is left untouched.
func (l *Layout) RegeneratePhotos(photoRefs []string) {
	l.photos = l.photoItems(photoRefs)
}

// Items returns every scene item, ornaments first.
func (l *Layout) Items() []Item {
	items := make([]Item, 0, len(l.ornaments)+len(l.photos))
	items = append(items, l.ornaments...)
	items = append(items, l.photos...)
	return items
}

// Item looks up a single item by id.
func (l *Layout) Item(id string) (Item, bool) {
	for _, it := range l.photos {
		if it.ID == id {
			return it, true
		}
	}
	for _, it := range l.ornaments {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// PhotoIDs returns the ids eligible for focus, in collection order.
func (l *Layout) PhotoIDs() []string {
	ids := make([]string, len(l.photos))
	for i, it := range l.photos {
		ids[i] = it.ID
	}
	return ids
}

// Len returns the total item count.
func (l *Layout) Len() int {
	return len(l.ornaments) + len(l.photos)
}
