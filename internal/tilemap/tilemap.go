// Package tilemap loads YAML tile-map descriptors and turns their layers into
// tile entities.
package tilemap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/plus3/tileproto/ecs"
	"github.com/plus3/tileproto/internal/game"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoTileset      = errors.New("tilemap: no tileset for tile id")
	ErrTileOutOfRange = errors.New("tilemap: tile id outside tileset")
	ErrMalformed      = errors.New("tilemap: malformed map")
)

// ShapeRect is the "shape" property value that gives a tile a box collider.
const ShapeRect = "rect"

type Map struct {
	Width    int       `yaml:"width"`
	Height   int       `yaml:"height"`
	Tilesets []Tileset `yaml:"tilesets"`
	Layers   []Layer   `yaml:"layers"`

	atlases []*game.Atlas
}

type Tileset struct {
	FirstGID    int       `yaml:"firstgid"`
	Name        string    `yaml:"name"`
	TileWidth   int       `yaml:"tilewidth"`
	TileHeight  int       `yaml:"tileheight"`
	Image       string    `yaml:"image"`
	ImageWidth  int       `yaml:"imagewidth"`
	ImageHeight int       `yaml:"imageheight"`
	Tiles       []TileDef `yaml:"tiles"`
}

// TileDef carries per-tile properties. ID is the tile's local index, counted
// from 0 at the tileset's first gid.
type TileDef struct {
	ID         int               `yaml:"id"`
	Properties map[string]string `yaml:"properties"`
}

// Layer is a row-major grid of global tile ids; 0 is empty.
type Layer struct {
	Name string  `yaml:"name"`
	Data [][]int `yaml:"data"`
}

// TextureLoader opens the image at path.
type TextureLoader func(path string) (game.Texture, error)

// TilesPerRow is the number of tiles across the tileset image.
func (ts *Tileset) TilesPerRow() int {
	return ts.ImageWidth / ts.TileWidth
}

// TileCount is the number of whole tiles in the tileset image.
func (ts *Tileset) TileCount() int {
	return ts.TilesPerRow() * (ts.ImageHeight / ts.TileHeight)
}

// Property returns a property of the tile with local id.
func (ts *Tileset) Property(local int, name string) (string, bool) {
	for _, def := range ts.Tiles {
		if def.ID == local {
			v, ok := def.Properties[name]
			return v, ok
		}
	}
	return "", false
}

// Parse decodes and validates a map descriptor.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(m.Tilesets, func(i, j int) bool {
		return m.Tilesets[i].FirstGID < m.Tilesets[j].FirstGID
	})
	return &m, nil
}

// Load reads the descriptor at path and loads every tileset image through
// loader. Image paths are relative to the descriptor.
func Load(path string, loader TextureLoader, logger *zap.Logger) (*Map, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse map %s: %w", path, err)
	}
	if err := m.LoadAtlases(filepath.Dir(path), loader); err != nil {
		return nil, err
	}

	logger.Info("map loaded",
		zap.String("path", path),
		zap.Int("width", m.Width),
		zap.Int("height", m.Height),
		zap.Int("tilesets", len(m.Tilesets)),
		zap.Int("layers", len(m.Layers)),
	)
	return m, nil
}

// LoadAtlases creates one shared atlas per tileset.
func (m *Map) LoadAtlases(dir string, loader TextureLoader) error {
	m.atlases = make([]*game.Atlas, len(m.Tilesets))
	for i := range m.Tilesets {
		ts := &m.Tilesets[i]
		atlas := newAtlas(ts, filepath.Join(dir, ts.Image))
		if loader != nil {
			tex, err := loader(atlas.Path)
			if err != nil {
				return fmt.Errorf("load tileset %q image %s: %w", ts.Name, atlas.Path, err)
			}
			atlas.Texture = tex
		}
		m.atlases[i] = atlas
	}
	return nil
}

func newAtlas(ts *Tileset, path string) *game.Atlas {
	return &game.Atlas{
		Path:       path,
		Width:      ts.ImageWidth,
		Height:     ts.ImageHeight,
		TileWidth:  ts.TileWidth,
		TileHeight: ts.TileHeight,
	}
}

// Atlas returns the atlas of tileset i, or nil before LoadAtlases.
func (m *Map) Atlas(i int) *game.Atlas {
	if i < 0 || i >= len(m.atlases) {
		return nil
	}
	return m.atlases[i]
}

// TilesetFor returns the index of the tileset holding gid and the tile's
// 1-based index within it.
func (m *Map) TilesetFor(gid int) (int, int, error) {
	found := -1
	for i := range m.Tilesets {
		if m.Tilesets[i].FirstGID <= gid {
			found = i
		}
	}
	if found < 0 {
		return 0, 0, fmt.Errorf("%w: %d", ErrNoTileset, gid)
	}
	ts := &m.Tilesets[found]
	index := gid - ts.FirstGID + 1
	if index > ts.TileCount() {
		return 0, 0, fmt.Errorf("%w: %d in %q (%d tiles)", ErrTileOutOfRange, gid, ts.Name, ts.TileCount())
	}
	return found, index, nil
}

// AtlasOffset returns the pixel offset of the 1-based tile index in an atlas
// with perRow tiles per row.
func AtlasOffset(index, perRow, tileWidth, tileHeight int) (x, y int) {
	return ((index - 1) % perRow) * tileWidth, ((index - 1) / perRow) * tileHeight
}

// Spawn creates one entity per non-empty cell of every layer, in layer order
// then row-major order. Cells whose tile has shape=rect get a static body.
// It returns the number of entities created; on error nothing is spawned.
func (m *Map) Spawn(storage *ecs.Storage) (int, error) {
	if m.atlases == nil {
		m.atlases = make([]*game.Atlas, len(m.Tilesets))
		for i := range m.Tilesets {
			m.atlases[i] = newAtlas(&m.Tilesets[i], m.Tilesets[i].Image)
		}
	}

	var builders []*ecs.EntityBuilder
	for _, layer := range m.Layers {
		for row, cells := range layer.Data {
			for col, gid := range cells {
				if gid == 0 {
					continue
				}
				b, err := m.tileEntity(storage, gid, row, col)
				if err != nil {
					return 0, fmt.Errorf("layer %q cell (%d,%d): %w", layer.Name, col, row, err)
				}
				builders = append(builders, b)
			}
		}
	}

	for _, b := range builders {
		b.Commit()
	}
	return len(builders), nil
}

func (m *Map) tileEntity(storage *ecs.Storage, gid, row, col int) (*ecs.EntityBuilder, error) {
	tsIndex, index, err := m.TilesetFor(gid)
	if err != nil {
		return nil, err
	}
	ts := &m.Tilesets[tsIndex]
	tw, th := ts.TileWidth, ts.TileHeight
	srcX, srcY := AtlasOffset(index, ts.TilesPerRow(), tw, th)

	b := storage.Build().
		With(game.Transform{X: float64(col * tw), Y: float64(row * th)}).
		With(game.Tile{
			SrcX:   float64(srcX),
			SrcY:   float64(srcY),
			Width:  float64(tw),
			Height: float64(th),
			Atlas:  m.atlases[tsIndex],
		})

	if shape, _ := ts.Property(index-1, "shape"); shape == ShapeRect {
		b.With(game.RigidBodyDescriptor{
			HalfWidth:  float64(tw) / 2,
			HalfHeight: float64(th) / 2,
			Friction:   1,
		})
	}
	return b, nil
}

func (m *Map) validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrMalformed, m.Width, m.Height)
	}
	for i := range m.Tilesets {
		ts := &m.Tilesets[i]
		switch {
		case ts.FirstGID < 1:
			return fmt.Errorf("%w: tileset %q firstgid %d", ErrMalformed, ts.Name, ts.FirstGID)
		case ts.TileWidth <= 0 || ts.TileHeight <= 0:
			return fmt.Errorf("%w: tileset %q tile size %dx%d", ErrMalformed, ts.Name, ts.TileWidth, ts.TileHeight)
		case ts.ImageWidth < ts.TileWidth || ts.ImageHeight < ts.TileHeight:
			return fmt.Errorf("%w: tileset %q image smaller than one tile", ErrMalformed, ts.Name)
		}
	}
	for _, layer := range m.Layers {
		if len(layer.Data) != m.Height {
			return fmt.Errorf("%w: layer %q has %d rows, want %d", ErrMalformed, layer.Name, len(layer.Data), m.Height)
		}
		for row, cells := range layer.Data {
			if len(cells) != m.Width {
				return fmt.Errorf("%w: layer %q row %d has %d cells, want %d", ErrMalformed, layer.Name, row, len(cells), m.Width)
			}
			for _, gid := range cells {
				if gid < 0 {
					return fmt.Errorf("%w: layer %q negative tile id %d", ErrMalformed, layer.Name, gid)
				}
			}
		}
	}
	return nil
}
