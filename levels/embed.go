package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/swingkit/physics"
)

//go:embed *.json
var LevelsFS embed.FS

const DefaultLevel = "sandbox.json"

var ErrInvalidLevel = errors.New("levels: invalid level")

// Level is a tile grid. Each entry of Layers is a row-major grid of
// Width*Height cells with row 0 at the top; any non-zero cell is solid and
// carries the physics layers named in the matching LayerMeta.
type Level struct {
	Name      string      `json:"name"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  float64     `json:"tile_size"`
	Gravity   *[2]float64 `json:"gravity,omitempty"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Name    string   `json:"name"`
	Physics []string `json:"physics"`
}

type Entity struct {
	Type  string         `json:"type"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	Props map[string]any `json:"props,omitempty"`
}

// Solid is one merged box of solid tiles.
type Solid struct {
	Layer  string
	BB     cp.BB
	Layers physics.Layer
}

func List() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func LoadLevelFromFS(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	return Parse(name, data)
}

func Parse(name string, data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("levels: %s: %w", name, err)
	}
	return &lvl, nil
}

func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidLevel, l.Width, l.Height)
	}
	if l.TileSize <= 0 {
		return fmt.Errorf("%w: tile size %v", ErrInvalidLevel, l.TileSize)
	}
	if len(l.LayerMeta) != len(l.Layers) {
		return fmt.Errorf("%w: %d layers but %d layer_meta entries", ErrInvalidLevel, len(l.Layers), len(l.LayerMeta))
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("%w: layer %d has %d cells, want %d", ErrInvalidLevel, i, len(layer), l.Width*l.Height)
		}
		if _, err := physics.ParseLayers(l.LayerMeta[i].Physics...); err != nil {
			return fmt.Errorf("%w: layer %d: %w", ErrInvalidLevel, i, err)
		}
	}
	spawns := 0
	for _, e := range l.Entities {
		if e.Type == "spawn" {
			spawns++
		}
		if e.X < 0 || e.X >= l.Width || e.Y < 0 || e.Y >= l.Height {
			return fmt.Errorf("%w: %s entity at (%d, %d) outside grid", ErrInvalidLevel, e.Type, e.X, e.Y)
		}
	}
	if spawns > 1 {
		return fmt.Errorf("%w: %d spawn points", ErrInvalidLevel, spawns)
	}
	return nil
}

// CellCenter converts a grid cell to world coordinates.
func (l *Level) CellCenter(x, y int) cp.Vector {
	return cp.Vector{
		X: (float64(x) + 0.5) * l.TileSize,
		Y: (float64(l.Height-y) - 0.5) * l.TileSize,
	}
}

// Spawn returns the spawn point, or the grid centre when none is placed.
func (l *Level) Spawn() cp.Vector {
	for _, e := range l.Entities {
		if e.Type == "spawn" {
			return l.CellCenter(e.X, e.Y)
		}
	}
	return cp.Vector{X: float64(l.Width) * l.TileSize / 2, Y: float64(l.Height) * l.TileSize / 2}
}

func (l *Level) WorldConfig() physics.WorldConfig {
	cfg := physics.DefaultWorldConfig()
	if l.Gravity != nil {
		cfg.Gravity = cp.Vector{X: l.Gravity[0], Y: l.Gravity[1]}
	}
	return cfg
}

// Bounds is the world-space box covering the whole grid.
func (l *Level) Bounds() cp.BB {
	return cp.BB{L: 0, B: 0, R: float64(l.Width) * l.TileSize, T: float64(l.Height) * l.TileSize}
}
