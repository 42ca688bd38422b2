package commands

import (
	"unsafe"

	"github.com/KibaOfficial/KiOS/kernel/kfmt"
	"github.com/KibaOfficial/KiOS/kernel/mem/pmm"
	"github.com/KibaOfficial/KiOS/kernel/mem/vmm"
	"github.com/KibaOfficial/KiOS/shell"
)

// vmtestVirtAddr must fall outside the kernel heap's window
// (0xFFFF800000000000, 16MiB) so this command's map/unmap cycle can't
// collide with heap.Init's own mappings, and outside memtest's scratch
// range so the two commands can't collide with each other either.
const vmtestVirtAddr = uintptr(0xFFFFA00000000000)

func init() {
	shell.Register(shell.Command{
		Name: "vmtest",
		Help: "exercise a single VMM map/translate/unmap cycle",
		Run:  runVmtest,
	})
}

func runVmtest(_ string) {
	printLine("")
	printLine("=== VMM Test ===")
	printLine("")

	frame, err := pmm.AllocFrame()
	if err != nil {
		printLine("  [FAIL] Failed to allocate physical page!")
		return
	}
	kfmt.Printf("  Allocated physical page at: %x\n", frame.Address())

	page := vmm.PageFromAddress(vmtestVirtAddr)
	kfmt.Printf("  Mapping to virtual address: %x\n", vmtestVirtAddr)
	if err := vmm.Map(page, frame, vmm.FlagPresent|vmm.FlagRW); err != nil {
		printLine("  [FAIL] Mapping failed!")
		return
	}
	printLine("  Mapping successful!")

	resolved, err := vmm.Translate(vmtestVirtAddr)
	kfmt.Printf("  Resolved physical address: %x\n", resolved)
	if err == nil && resolved == frame.Address() {
		printLine("  [PASS] Virtual to physical mapping correct!")
	} else {
		printLine("  [FAIL] Mapping mismatch!")
	}

	printLine("")
	printLine("  Writing test data via virtual address...")
	ptr := (*uint64)(unsafe.Pointer(vmtestVirtAddr))
	*ptr = 0xDEADBEEFCAFEBABE
	readValue := *ptr
	kfmt.Printf("  Read value: %x\n", readValue)
	if readValue == 0xDEADBEEFCAFEBABE {
		printLine("  [PASS] Read/Write works correctly!")
	} else {
		printLine("  [FAIL] Read/Write failed!")
	}

	printLine("")
	printLine("  Unmapping page...")
	vmm.Unmap(page)
	if _, err := vmm.Translate(vmtestVirtAddr); err != nil {
		printLine("  [PASS] Unmapping successful!")
	} else {
		printLine("  [FAIL] Page still mapped!")
	}

	pmm.FreeFrame(frame)
	printLine("  Freed physical page")

	printLine("")
	printLine("=== VMM Test Complete ===")
	printLine("")
}
