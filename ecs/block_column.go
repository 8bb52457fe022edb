package ecs

import (
	"iter"
	"unsafe"
)

const blockSize = 64

// blockColumn stores values of T in fixed-size blocks so that pointers handed
// out by Get stay valid while the column grows. Deleted slots go on a free
// list and are reused by later appends.
type blockColumn[T any] struct {
	blocks    []*[blockSize]T
	filled    []*[blockSize]bool
	freeSlots []int
	next      int
	live      int
}

func (c *blockColumn[T]) locate(index int) (block, slot int, ok bool) {
	if index < 0 || index >= c.next {
		return 0, 0, false
	}
	return index / blockSize, index % blockSize, true
}

// Append stores item, which must be a T or *T, and returns its slot.
func (c *blockColumn[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		return -1
	}

	var index int
	if n := len(c.freeSlots); n > 0 {
		index = c.freeSlots[n-1]
		c.freeSlots = c.freeSlots[:n-1]
	} else {
		index = c.next
		c.next++
		if index/blockSize >= len(c.blocks) {
			c.blocks = append(c.blocks, new([blockSize]T))
			c.filled = append(c.filled, new([blockSize]bool))
		}
	}

	block, slot := index/blockSize, index%blockSize
	c.blocks[block][slot] = value
	c.filled[block][slot] = true
	c.live++
	return index
}

// Get returns a *T for the slot, or nil when the slot is empty.
func (c *blockColumn[T]) Get(index int) any {
	block, slot, ok := c.locate(index)
	if !ok || !c.filled[block][slot] {
		return nil
	}
	return &c.blocks[block][slot]
}

// Pointer is Get without the interface boxing, for the view hot path.
func (c *blockColumn[T]) Pointer(index int) unsafe.Pointer {
	block, slot, ok := c.locate(index)
	if !ok || !c.filled[block][slot] {
		return nil
	}
	return unsafe.Pointer(&c.blocks[block][slot])
}

// Delete zeroes the slot and puts it on the free list.
func (c *blockColumn[T]) Delete(index int) {
	block, slot, ok := c.locate(index)
	if !ok || !c.filled[block][slot] {
		return
	}
	var zero T
	c.blocks[block][slot] = zero
	c.filled[block][slot] = false
	c.freeSlots = append(c.freeSlots, index)
	c.live--
}

func (c *blockColumn[T]) Has(index int) bool {
	block, slot, ok := c.locate(index)
	return ok && c.filled[block][slot]
}

func (c *blockColumn[T]) Len() int {
	return c.live
}

// Compact packs live values to the front. The returned map is old slot to new
// slot for every live value.
func (c *blockColumn[T]) Compact() map[int]int {
	moved := make(map[int]int, c.live)
	if c.live == 0 {
		c.blocks, c.filled, c.freeSlots, c.next = nil, nil, nil, 0
		return moved
	}

	n := (c.live + blockSize - 1) / blockSize
	blocks := make([]*[blockSize]T, n)
	filled := make([]*[blockSize]bool, n)
	for i := range blocks {
		blocks[i] = new([blockSize]T)
		filled[i] = new([blockSize]bool)
	}

	write := 0
	for read := 0; read < c.next; read++ {
		rb, rs := read/blockSize, read%blockSize
		if !c.filled[rb][rs] {
			continue
		}
		wb, ws := write/blockSize, write%blockSize
		blocks[wb][ws] = c.blocks[rb][rs]
		filled[wb][ws] = true
		moved[read] = write
		write++
	}

	c.blocks, c.filled, c.freeSlots, c.next = blocks, filled, nil, write
	return moved
}

// Iter yields live slots in ascending order.
func (c *blockColumn[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.next; i++ {
			if !c.filled[i/blockSize][i%blockSize] {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}
