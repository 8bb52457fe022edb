// Package debugui provides a Dear ImGui overlay for ECS applications. Panels
// are ordinary entities holding an ImguiItem; the ImguiSystem queues their
// render functions as deferred commands so they run after every other
// system of the tick.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tileproto/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks whether ImGui wants the mouse or keyboard this frame.
// Platform code reads it to avoid forwarding captured input to the game.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queries all ImguiItem components and defers their render functions.
// It also updates the ImguiInputState singleton with current input capture state.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.ImguiItem.Render)
	}
}

// RegisterComponents registers the overlay's component kinds.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
}

// Install adds the input state singleton, spawns one ImguiItem per panel and
// registers the ImguiSystem. Register it after the systems it reports on.
func Install(storage *ecs.Storage, scheduler *ecs.Scheduler, panels ...Panel) {
	ecs.NewSingleton[ImguiInputState](storage)
	for _, p := range panels {
		storage.Spawn(ImguiItem{Render: p.Render})
	}
	scheduler.Register(&ImguiSystem{})
}

// Panel is one overlay window.
type Panel interface {
	Render()
}
