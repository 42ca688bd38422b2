package heap

import (
	"testing"

	"github.com/KibaOfficial/KiOS/kernel"
	"github.com/KibaOfficial/KiOS/kernel/mem"
	"github.com/KibaOfficial/KiOS/kernel/mem/pmm"
	"github.com/KibaOfficial/KiOS/kernel/mem/vmm"
)

func TestAllocZeroSize(t *testing.T) {
	Init()
	ptr, err := Alloc(0)
	if err != nil || ptr != 0 {
		t.Fatalf("expected (0, nil) for a zero-size allocation; got (%#x, %v)", ptr, err)
	}
}

func TestAllocRoundsUpAndMapsPages(t *testing.T) {
	defer func() {
		translateFn = vmm.Translate
		mapFn = vmm.Map
		frameAllocatorFn = pmm.AllocFrame
	}()
	Init()

	var mappedPages []vmm.Page
	translateFn = func(addr uintptr) (uintptr, *kernel.Error) {
		return 0, vmm.ErrInvalidMapping
	}
	frameAllocatorFn = func() (pmm.Frame, *kernel.Error) { return 0, nil }
	mapFn = func(page vmm.Page, frame pmm.Frame, flags vmm.PageTableEntryFlag) *kernel.Error {
		mappedPages = append(mappedPages, page)
		if flags&(vmm.FlagPresent|vmm.FlagRW) != (vmm.FlagPresent | vmm.FlagRW) {
			t.Errorf("expected Map to be called with FlagPresent|FlagRW; got %d", flags)
		}
		return nil
	}

	ptr, err := Alloc(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ptr != heapStart {
		t.Fatalf("expected first allocation to start at heapStart; got %#x", ptr)
	}
	if len(mappedPages) != 1 {
		t.Fatalf("expected exactly 1 page to be mapped; got %d", len(mappedPages))
	}
	if got := CurrentSize(); got != mem.Size(allocAlign) {
		t.Fatalf("expected current size to be rounded up to %d; got %d", allocAlign, got)
	}
	if got := TotalAllocated(); got != mem.Size(allocAlign) {
		t.Fatalf("expected total allocated %d; got %d", allocAlign, got)
	}
}

func TestAllocSkipsAlreadyMappedPages(t *testing.T) {
	defer func() {
		translateFn = vmm.Translate
		mapFn = vmm.Map
	}()
	Init()

	translateFn = func(addr uintptr) (uintptr, *kernel.Error) { return 0x1000, nil }
	mapFn = func(page vmm.Page, frame pmm.Frame, flags vmm.PageTableEntryFlag) *kernel.Error {
		t.Fatal("Map should not be called when the page is already mapped")
		return nil
	}

	if _, err := Alloc(64); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAllocFailsWhenHeapExhausted(t *testing.T) {
	defer func() {
		translateFn = vmm.Translate
		mapFn = vmm.Map
	}()
	Init()
	current = heapStart + uintptr(heapSize) - 1

	translateFn = func(addr uintptr) (uintptr, *kernel.Error) { return 0x1000, nil }

	if _, err := Alloc(64); err != errOutOfHeap {
		t.Fatalf("expected errOutOfHeap; got %v", err)
	}
}

func TestAllocPropagatesFrameAllocationError(t *testing.T) {
	defer func() {
		translateFn = vmm.Translate
		frameAllocatorFn = pmm.AllocFrame
	}()
	Init()

	expErr := &kernel.Error{Module: "test", Message: "out of memory"}
	translateFn = func(addr uintptr) (uintptr, *kernel.Error) { return 0, vmm.ErrInvalidMapping }
	frameAllocatorFn = func() (pmm.Frame, *kernel.Error) { return pmm.InvalidFrame, expErr }

	if _, err := Alloc(64); err != expErr {
		t.Fatalf("expected %v; got %v", expErr, err)
	}
}

func TestAllocPropagatesMapError(t *testing.T) {
	defer func() {
		translateFn = vmm.Translate
		mapFn = vmm.Map
		frameAllocatorFn = pmm.AllocFrame
	}()
	Init()

	expErr := &kernel.Error{Module: "test", Message: "map failed"}
	translateFn = func(addr uintptr) (uintptr, *kernel.Error) { return 0, vmm.ErrInvalidMapping }
	frameAllocatorFn = func() (pmm.Frame, *kernel.Error) { return 0, nil }
	mapFn = func(page vmm.Page, frame pmm.Frame, flags vmm.PageTableEntryFlag) *kernel.Error {
		return expErr
	}

	if _, err := Alloc(64); err != expErr {
		t.Fatalf("expected %v; got %v", expErr, err)
	}
}
