package game

import (
	"reflect"

	"github.com/jakecoffman/cp"
	"github.com/plus3/tileproto/ecs"
	"go.uber.org/zap"
)

// PhysicsSettings configures the space. Friction and restitution of two
// touching shapes combine by product, Chipmunk's native rule.
type PhysicsSettings struct {
	Gravity   cp.Vector
	TimeScale float64
}

func DefaultPhysicsSettings() PhysicsSettings {
	return PhysicsSettings{
		Gravity:   cp.Vector{X: 0, Y: 600},
		TimeScale: 1,
	}
}

// NewPhysicsWorld creates the cp space with gravity set.
func NewPhysicsWorld(settings PhysicsSettings) PhysicsWorld {
	space := cp.NewSpace()
	space.SetGravity(settings.Gravity)
	return PhysicsWorld{Space: space, Bodies: NewBodyTable()}
}

// PhysicsSystem keeps a cp space in step with the entities that asked for a
// body. Each tick it registers new bodies, applies pending impulses, steps
// the space by the front render event's delta time, copies body positions
// into Transforms and prunes bodies whose entity is gone or lost its
// Transform.
type PhysicsSystem struct {
	Pending ecs.Query[struct {
		*Transform
		*RigidBodyDescriptor
	}]
	World  ecs.Singleton[PhysicsWorld]
	Forces ecs.Singleton[Forces]
	Render ecs.Singleton[RenderEvents]

	TimeScale float64
	logger    *zap.Logger
	orphans   []BodyHandle
}

func NewPhysicsSystem(settings PhysicsSettings, logger *zap.Logger) *PhysicsSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhysicsSystem{
		TimeScale: settings.TimeScale,
		logger:    logger.Named("physics"),
	}
}

func (s *PhysicsSystem) Execute(frame *ecs.UpdateFrame) {
	world := s.World.Get()
	if world == nil {
		return
	}

	s.register(frame, world)
	s.follow(frame.Storage, world)
	s.applyForces(frame.Storage, world)

	if dt := s.delta(); dt > 0 {
		world.Space.Step(dt)
	}

	s.sync(frame.Storage, world)
	s.prune(world)
}

func (s *PhysicsSystem) register(frame *ecs.UpdateFrame, world *PhysicsWorld) {
	descriptorType := reflect.TypeFor[RigidBodyDescriptor]()

	for id, item := range s.Pending.Iter() {
		frame.Commands.RemoveComponent(id, descriptorType)

		ref := frame.Storage.CreateEntityRef(id)
		if _, exists := world.Bodies.HandleFor(ref); exists {
			continue
		}

		desc := item.RigidBodyDescriptor
		width, height := desc.HalfWidth*2, desc.HalfHeight*2

		var body *cp.Body
		if desc.Density > 0 {
			mass := desc.Density * width * height
			body = cp.NewBody(mass, cp.MomentForBox(mass, width, height))
		} else {
			body = cp.NewStaticBody()
		}
		world.Space.AddBody(body)

		// Transform is the top-left corner; the body sits at the box centre.
		offset := cp.Vector{X: desc.HalfWidth, Y: desc.HalfHeight}
		body.SetPosition(cp.Vector{X: item.Transform.X, Y: item.Transform.Y}.Add(offset))

		shape := cp.NewBox(body, width, height, 0)
		shape.SetFriction(desc.Friction)
		shape.SetElasticity(desc.Restitution)
		world.Space.AddShape(shape)
		h := world.Bodies.Insert(ref, body, shape, offset)
		if b, ok := world.Bodies.Get(h); ok {
			b.transformAt = *item.Transform
		}

		s.logger.Debug("body registered",
			zap.Uint32("handle", uint32(h)),
			zap.Uint64("entity", uint64(id)),
			zap.Bool("static", desc.Density <= 0),
		)
	}
}

// applyForces pushes pending impulses into dynamic bodies at their centre.
// Impulses for entities without a dynamic body are dropped.
func (s *PhysicsSystem) applyForces(storage *ecs.Storage, world *PhysicsWorld) {
	forces := s.Forces.Get()
	if forces == nil || forces.Len() == 0 {
		return
	}
	forces.Each(func(id ecs.EntityId, impulse Impulse) {
		h, ok := world.Bodies.HandleFor(storage.CreateEntityRef(id))
		if !ok {
			return
		}
		b, _ := world.Bodies.Get(h)
		if b.Body.GetType() != cp.BODY_DYNAMIC {
			return
		}
		b.Body.ApplyImpulseAtLocalPoint(cp.Vector{X: impulse.X, Y: impulse.Y}, cp.Vector{})
	})
	forces.Clear()
}

// delta is the step length for this tick, or 0 when there is no render event.
func (s *PhysicsSystem) delta() float64 {
	events := s.Render.Get()
	if events == nil {
		return 0
	}
	ev, ok := events.Peek()
	if !ok {
		return 0
	}
	return ev.DeltaTime * s.TimeScale
}

// follow teleports bodies whose Transform was changed outside the
// simulation, such as by step-mode input. Static shapes are only reindexed
// when added to the space, so they are taken out around the move.
func (s *PhysicsSystem) follow(storage *ecs.Storage, world *PhysicsWorld) {
	world.Bodies.Each(func(b *Body) {
		id, ok := storage.ResolveEntityRef(b.Entity)
		if !ok {
			return
		}
		t := ecs.ReadComponent[Transform](storage, id)
		if t == nil || *t == b.transformAt {
			return
		}
		pos := cp.Vector{X: t.X, Y: t.Y}.Add(b.Offset)
		if b.Body.GetType() == cp.BODY_STATIC {
			world.Space.RemoveShape(b.Shape)
			b.Body.SetPosition(pos)
			world.Space.AddShape(b.Shape)
		} else {
			b.Body.SetPosition(pos)
		}
		b.transformAt = *t
		b.bodyAt = b.Body.Position()
	})
}

func (s *PhysicsSystem) sync(storage *ecs.Storage, world *PhysicsWorld) {
	world.Bodies.Each(func(b *Body) {
		id, ok := storage.ResolveEntityRef(b.Entity)
		if !ok {
			b.orphan = true
			return
		}
		t := ecs.ReadComponent[Transform](storage, id)
		if t == nil {
			b.orphan = true
			return
		}
		pos := b.Body.Position()
		if pos == b.bodyAt {
			return
		}
		t.X, t.Y = pos.X-b.Offset.X, pos.Y-b.Offset.Y
		b.bodyAt = pos
		b.transformAt = *t
	})
}

func (s *PhysicsSystem) prune(world *PhysicsWorld) {
	s.orphans = s.orphans[:0]
	world.Bodies.Each(func(b *Body) {
		if b.orphan {
			s.orphans = append(s.orphans, b.Handle)
		}
	})

	for _, h := range s.orphans {
		b, _ := world.Bodies.Get(h)
		world.Space.RemoveShape(b.Shape)
		world.Space.RemoveBody(b.Body)
		world.Bodies.Remove(h)
		s.logger.Debug("body pruned", zap.Uint32("handle", uint32(h)))
	}
}
