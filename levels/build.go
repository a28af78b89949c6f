package levels

import (
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/swingkit/physics"
)

type run struct {
	x0, x1 int // half open
	y0, y1 int // half open, rows grow downward
}

// Solids merges each layer's solid cells into as few boxes as possible:
// horizontal runs first, then runs with the same span in consecutive rows.
// Merging keeps seams out of floors and walls.
func (l *Level) Solids() ([]Solid, error) {
	var out []Solid
	for i, cells := range l.Layers {
		mask, err := physics.ParseLayers(l.LayerMeta[i].Physics...)
		if err != nil {
			return nil, fmt.Errorf("levels: layer %d: %w", i, err)
		}
		if mask == physics.LayerNone {
			continue
		}
		for _, r := range mergeRuns(cells, l.Width, l.Height) {
			out = append(out, Solid{
				Layer:  l.LayerMeta[i].Name,
				BB:     l.runBB(r),
				Layers: mask,
			})
		}
	}
	return out, nil
}

func (l *Level) runBB(r run) cp.BB {
	ts := l.TileSize
	return cp.BB{
		L: float64(r.x0) * ts,
		R: float64(r.x1) * ts,
		T: float64(l.Height-r.y0) * ts,
		B: float64(l.Height-r.y1) * ts,
	}
}

func mergeRuns(cells []int, width, height int) []run {
	var done []run
	open := map[[2]int]*run{}
	for y := 0; y < height; y++ {
		next := map[[2]int]*run{}
		for x := 0; x < width; {
			if cells[y*width+x] == 0 {
				x++
				continue
			}
			start := x
			for x < width && cells[y*width+x] != 0 {
				x++
			}
			key := [2]int{start, x}
			if r, ok := open[key]; ok {
				r.y1 = y + 1
				next[key] = r
				delete(open, key)
				continue
			}
			next[key] = &run{x0: start, x1: x, y0: y, y1: y + 1}
		}
		for _, r := range open {
			done = append(done, *r)
		}
		open = next
	}
	for _, r := range open {
		done = append(done, *r)
	}
	sort.Slice(done, func(i, j int) bool {
		if done[i].y0 != done[j].y0 {
			return done[i].y0 < done[j].y0
		}
		return done[i].x0 < done[j].x0
	})
	return done
}

// Build adds the level's solids to w.
func Build(l *Level, w *physics.World) ([]Solid, error) {
	if l == nil || w == nil {
		return nil, fmt.Errorf("levels: build: %w", ErrInvalidLevel)
	}
	solids, err := l.Solids()
	if err != nil {
		return nil, err
	}
	for _, s := range solids {
		w.AddStaticBox(s.BB, s.Layers)
	}
	return solids, nil
}
