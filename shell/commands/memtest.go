package commands

import (
	"unsafe"

	"github.com/KibaOfficial/KiOS/kernel/heap"
	"github.com/KibaOfficial/KiOS/kernel/kfmt"
	"github.com/KibaOfficial/KiOS/kernel/mem"
	"github.com/KibaOfficial/KiOS/kernel/mem/pmm"
	"github.com/KibaOfficial/KiOS/kernel/mem/vmm"
	"github.com/KibaOfficial/KiOS/shell"
)

const (
	memtestPages      = 50
	memtestHeapAllocs = 100
	memtestHeapSize   = 256
	memtestVirtBase   = uintptr(0xFFFF900000000000)
)

var pageStride = uintptr(mem.PageSize)

func init() {
	shell.Register(shell.Command{
		Name: "memtest",
		Help: "stress-test the PMM, VMM and kernel heap",
		Run:  runMemtest,
	})
}

func memtestFail(stage string, index int) {
	kfmt.Printf("  [FAIL] %s at index %d\n", stage, index)
}

func runMemtest(_ string) {
	printLine("")
	printLine("=== Memory Stress Test ===")
	printLine("")

	printLine("Test 1: PMM Page Allocation")
	kfmt.Printf("  Allocating %d pages...\n", memtestPages)
	var frames [memtestPages]pmm.Frame
	for i := 0; i < memtestPages; i++ {
		f, err := pmm.AllocFrame()
		if err != nil {
			memtestFail("Failed to allocate page", i)
			return
		}
		frames[i] = f
	}
	printLine("  [PASS] All pages allocated!")

	printLine("Test 2: VMM Page Mapping")
	kfmt.Printf("  Mapping %d pages...\n", memtestPages)
	for i := 0; i < memtestPages; i++ {
		page := vmm.PageFromAddress(memtestVirtBase + uintptr(i)*pageStride)
		if err := vmm.Map(page, frames[i], vmm.FlagPresent|vmm.FlagRW); err != nil {
			memtestFail("Mapping failed", i)
			return
		}
		resolved, err := vmm.Translate(page.Address())
		if err != nil || resolved != frames[i].Address() {
			memtestFail("Mapping mismatch", i)
			return
		}
	}
	printLine("  [PASS] All pages mapped correctly!")

	printLine("Test 3: Memory Read/Write")
	kfmt.Printf("  Writing test pattern to %d pages...\n", memtestPages)
	for i := 0; i < memtestPages; i++ {
		addr := memtestVirtBase + uintptr(i)*pageStride
		ptr := (*uint64)(unsafe.Pointer(addr))
		*ptr = 0xDEADBEEF00000000 | uint64(i)
	}
	printLine("  Reading back and verifying...")
	for i := 0; i < memtestPages; i++ {
		addr := memtestVirtBase + uintptr(i)*pageStride
		ptr := (*uint64)(unsafe.Pointer(addr))
		expected := 0xDEADBEEF00000000 | uint64(i)
		if *ptr != expected {
			memtestFail("Data mismatch", i)
			return
		}
	}
	printLine("  [PASS] All data verified!")

	printLine("Test 4: VMM Page Unmapping")
	kfmt.Printf("  Unmapping %d pages...\n", memtestPages)
	for i := 0; i < memtestPages; i++ {
		page := vmm.PageFromAddress(memtestVirtBase + uintptr(i)*pageStride)
		if err := vmm.Unmap(page); err != nil {
			memtestFail("Unmap failed", i)
			return
		}
		if _, err := vmm.Translate(page.Address()); err == nil {
			memtestFail("Page still mapped", i)
			return
		}
	}
	printLine("  [PASS] All pages unmapped!")

	printLine("Test 5: PMM Page Freeing")
	kfmt.Printf("  Freeing %d pages...\n", memtestPages)
	for i := 0; i < memtestPages; i++ {
		pmm.FreeFrame(frames[i])
	}
	printLine("  [PASS] All pages freed!")

	printLine("Test 6: Heap Allocations")
	kfmt.Printf("  Allocating %d heap blocks...\n", memtestHeapAllocs)
	var blocks [memtestHeapAllocs]uintptr
	for i := 0; i < memtestHeapAllocs; i++ {
		addr, err := heap.Alloc(mem.Size(memtestHeapSize))
		if err != nil {
			memtestFail("kmalloc failed", i)
			return
		}
		blocks[i] = addr
		buf := unsafe.Slice((*byte)(unsafe.Pointer(addr)), memtestHeapSize)
		for j := range buf {
			buf[j] = byte(i + j)
		}
	}
	printLine("  Verifying heap data...")
	for i := 0; i < memtestHeapAllocs; i++ {
		buf := unsafe.Slice((*byte)(unsafe.Pointer(blocks[i])), memtestHeapSize)
		for j, b := range buf {
			if b != byte(i+j) {
				memtestFail("Heap data corruption", i)
				return
			}
		}
	}
	printLine("  [PASS] Heap test successful!")

	printLine("")
	printLine("=== All Tests Passed! ===")
	printLine("")
}
