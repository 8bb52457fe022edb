package ecs

// System is one unit of per-tick logic. Query and Singleton fields on the
// system struct are initialized by Scheduler.Register; any other fields are
// the system's own state and persist between ticks.
type System interface {
	Execute(frame *UpdateFrame)
}
