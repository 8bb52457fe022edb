package ecs

// UpdateFrame is what a system receives for one tick: the tick's delta time,
// the shared command buffer and read access to storage.
type UpdateFrame struct {
	DeltaTime float64
	Tick      uint64
	Commands  *Commands
	Storage   *Storage
}
