package vm

// heapStart is the first address handed out, matching spec.md §3.4.
const heapStart = 1000

// Heap is a simulated, integer-addressed memory arena used for Holy-C
// pointer semantics (malloc/free/deref/setvalue). It has no relationship
// to host memory; addresses are opaque handles into this map, grounded on
// vm/image.go's address-indexed Image in the teacher, generalized from a
// flat Cell array to a sparse map since HolyZ pointers are not required to
// be contiguous.
type Heap struct {
	cells       map[uint64]Value
	nextAddress uint64
}

// NewHeap returns an empty heap whose first allocation lands at address
// 1000 (spec.md §3.4).
func NewHeap() *Heap {
	return &Heap{cells: make(map[uint64]Value), nextAddress: heapStart}
}

// Alloc stores v in a fresh cell and returns its address. next_address is
// monotonically increasing: addresses are never reused within a run
// (spec.md §3.5 invariants, §8.1 property 5).
func (h *Heap) Alloc(v Value) uint64 {
	addr := h.nextAddress
	h.nextAddress++
	h.cells[addr] = v
	return addr
}

// Deref returns the value stored at addr, or Null if the address is
// unknown (never allocated, or already freed).
func (h *Heap) Deref(addr uint64) Value {
	v, ok := h.cells[addr]
	if !ok {
		return Null
	}
	return v
}

// Set overwrites the value stored at addr. Setting an address that was
// never allocated is a no-op, matching Free's no-op-on-double-free
// symmetry.
func (h *Heap) Set(addr uint64, v Value) {
	if _, ok := h.cells[addr]; ok {
		h.cells[addr] = v
	}
}

// Free erases the cell at addr. Double-free is a no-op.
func (h *Heap) Free(addr uint64) {
	delete(h.cells, addr)
}
