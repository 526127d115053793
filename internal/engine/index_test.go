package engine

import (
	"testing"

	"github.com/vovakirdan/skybeat/internal/config"
	"github.com/vovakirdan/skybeat/internal/core"
	"github.com/vovakirdan/skybeat/internal/entity"
)

func indexPlatform(y float64, motion *entity.Motion) *entity.Platform {
	return entity.NewPlatform(entity.PlatformSpec{
		Rect:   core.NewRect(0, y, 40, 10),
		Type:   entity.TypeSolid,
		Motion: motion,
	}, config.DefaultConfig().Platforms)
}

func TestIndexQuery(t *testing.T) {
	var ix platformIndex
	for _, y := range []float64{300, 0, 100, 200} {
		ix.Insert(indexPlatform(y, nil))
	}

	got := ix.Query(nil, 95, 205)
	if len(got) != 2 {
		t.Fatalf("expected 2 platforms, got %d", len(got))
	}
	if got[0].Bounds().Y != 100 || got[1].Bounds().Y != 200 {
		t.Errorf("results not ordered by height: %v, %v", got[0].Bounds().Y, got[1].Bounds().Y)
	}
	if n := len(ix.Query(nil, 400, 500)); n != 0 {
		t.Errorf("empty window returned %d", n)
	}
}

func TestIndexQueryUsesMotionBand(t *testing.T) {
	var ix platformIndex
	ix.Insert(indexPlatform(0, nil))
	ix.Insert(indexPlatform(100, &entity.Motion{Kind: entity.MotionVertical, Distance: 80, Speed: 1}))

	got := ix.Query(nil, 170, 180)
	if len(got) != 1 || got[0].Motion() == nil {
		t.Fatalf("vertical mover should be found through its band, got %d", len(got))
	}
}

func TestIndexPruneBelow(t *testing.T) {
	var ix platformIndex
	for _, y := range []float64{0, 100, 200} {
		ix.Insert(indexPlatform(y, nil))
	}

	evicted := 0
	n := ix.PruneBelow(150, func(*entity.Platform) { evicted++ })
	if n != 2 || evicted != 2 || ix.Len() != 1 {
		t.Errorf("pruned %d, evicted %d, left %d", n, evicted, ix.Len())
	}
	if all := ix.All(); all[0].Bounds().Y != 200 {
		t.Errorf("wrong survivor %v", all[0].Bounds().Y)
	}

	ix.Reset()
	if ix.Len() != 0 {
		t.Error("reset should empty the index")
	}
}
