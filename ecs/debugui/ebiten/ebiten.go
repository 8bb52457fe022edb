// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// The zero value is disabled and every method is a no-op, so game code can
// call it unconditionally.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the backend and its window. ImGui's ini file is
// disabled.
func NewImguiBackend(title string, width, height int) *ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &ImguiBackend{EbitenBackend: backend}
}

func (b *ImguiBackend) Enabled() bool {
	return b != nil && b.EbitenBackend != nil
}

func (b *ImguiBackend) Begin() {
	if b.Enabled() {
		b.BeginFrame()
	}
}

func (b *ImguiBackend) End() {
	if b.Enabled() {
		b.EndFrame()
	}
}

func (b *ImguiBackend) Overlay(screen *ebiten.Image) {
	if b.Enabled() {
		b.EbitenBackend.Draw(screen)
	}
}

func (b *ImguiBackend) Resize(outsideWidth, outsideHeight int) {
	if b.Enabled() {
		b.EbitenBackend.Layout(outsideWidth, outsideHeight)
	}
}
