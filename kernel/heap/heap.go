// Package heap implements the kernel's dynamic memory allocator: a bump
// allocator over a fixed higher-half virtual window, with pages mapped
// on-demand as the heap grows. Ground: original_source's
// src/kernel/mm/heap.c, re-expressed against kernel/mem/vmm's Map/Translate
// pair instead of vmm_map_page/vmm_virt_to_phys.
package heap

import (
	"github.com/KibaOfficial/KiOS/kernel"
	"github.com/KibaOfficial/KiOS/kernel/mem"
	"github.com/KibaOfficial/KiOS/kernel/mem/pmm"
	"github.com/KibaOfficial/KiOS/kernel/mem/vmm"
)

const (
	// heapStart is the base of the kernel heap window, in the higher half.
	heapStart = uintptr(0xffff800000000000)

	// heapSize is the total virtual address range reserved for the heap.
	// Physical frames are only committed as kmalloc actually uses them.
	heapSize = mem.Size(16 * 1024 * 1024)

	allocAlign = uintptr(16)
)

var (
	current uintptr
	total   mem.Size

	// translateFn, mapFn and frameAllocatorFn are mocked by tests and
	// automatically inlined by the compiler when compiling the kernel.
	translateFn      = vmm.Translate
	mapFn            = vmm.Map
	frameAllocatorFn = pmm.AllocFrame

	errOutOfHeap = &kernel.Error{Module: "heap", Message: "heap exhausted"}
)

// Init resets the bump pointer and allocation counter. Safe to call again
// after a failed boot stage restarts heap accounting, though in practice it
// runs exactly once.
func Init() {
	current = heapStart
	total = 0
}

// Alloc reserves size bytes from the kernel heap, rounded up to a 16-byte
// boundary, mapping whatever pages the request spans that are not already
// present. There is no free path: Free is a documented no-op, matching the
// bump allocator's "never reclaim kernel structures" posture.
func Alloc(size mem.Size) (uintptr, *kernel.Error) {
	if size == 0 {
		return 0, nil
	}

	size = (size + mem.Size(allocAlign-1)) &^ mem.Size(allocAlign-1)

	if current+uintptr(size) >= heapStart+uintptr(heapSize) {
		return 0, errOutOfHeap
	}

	startAddr := current
	endAddr := current + uintptr(size)

	startPage := startAddr &^ uintptr(mem.PageSize-1)
	endPage := (endAddr + uintptr(mem.PageSize-1)) &^ uintptr(mem.PageSize-1)

	for page := startPage; page < endPage; page += uintptr(mem.PageSize) {
		if _, err := translateFn(page); err == nil {
			continue
		}

		frame, err := frameAllocatorFn()
		if err != nil {
			return 0, err
		}
		if err := mapFn(vmm.PageFromAddress(page), frame, vmm.FlagPresent|vmm.FlagRW); err != nil {
			return 0, err
		}
	}

	ptr := current
	current += uintptr(size)
	total += size
	return ptr, nil
}

// Free is a no-op: the bump allocator never reclaims memory. Reclamation is
// out of scope (see spec's Open Question on heap freeing); callers retain
// the pointer contract of a real free for source compatibility.
func Free(_ uintptr) {}

// TotalAllocated returns the number of bytes handed out by Alloc so far.
func TotalAllocated() mem.Size {
	return total
}

// CurrentSize returns how far the bump pointer has advanced from heapStart.
func CurrentSize() mem.Size {
	return mem.Size(current - heapStart)
}
