package ecs

import (
	"reflect"
	"unsafe"
)

// singletonEntry owns the heap copy of one singleton value.
type singletonEntry struct {
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// AddSingleton stores value as the singleton of its type, replacing any
// previous value. Singletons do not need registering.
func (s *Storage) AddSingleton(value any) {
	t := reflect.TypeOf(value)
	v := reflect.New(t)
	v.Elem().Set(reflect.ValueOf(value))
	if entry, ok := s.singletons[t]; ok {
		entry.value.Elem().Set(v.Elem())
		return
	}
	s.singletons[t] = &singletonEntry{value: v, dataPtr: v.UnsafePointer()}
}

// RemoveSingleton drops the singleton of type t.
func (s *Storage) RemoveSingleton(t reflect.Type) {
	delete(s.singletons, t)
}

// ReadSingleton points *target at the stored singleton. target must be a **T.
// It returns false and leaves target untouched if no T singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Ptr {
		panic("ecs: ReadSingleton target must be a pointer to a pointer")
	}
	ptr := rv.Elem()
	entry, ok := s.singletons[ptr.Type().Elem()]
	if !ok {
		return false
	}
	ptr.Set(entry.value)
	return true
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// Singleton caches the location of one singleton value. Systems declare it as
// a field and the Scheduler wires it up during Register.
type Singleton[T any] struct {
	storage      *Storage
	componentPtr unsafe.Pointer
}

// NewSingleton returns an accessor for T, storing initializer (or the zero
// value) first if no T singleton exists yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	t := reflect.TypeFor[T]()
	if storage.getSingletonEntry(t) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}
	s := &Singleton[T]{}
	s.Init(storage)
	return s
}

// Init binds the accessor to storage. Called by the Scheduler.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.componentPtr = nil
	s.updateCache()
}

// Get returns the singleton, or nil if it has not been added.
func (s *Singleton[T]) Get() *T {
	if s.componentPtr == nil {
		s.updateCache()
	}
	return (*T)(s.componentPtr)
}

// Exists reports whether the singleton has been added.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

func (s *Singleton[T]) updateCache() {
	if s.storage == nil {
		return
	}
	if entry := s.storage.getSingletonEntry(reflect.TypeFor[T]()); entry != nil {
		s.componentPtr = entry.dataPtr
	}
}
