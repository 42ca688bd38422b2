// Package gdt builds the kernel's Global Descriptor Table and Task State
// Segment. The table is static: built once at boot, loaded via lgdt, and
// never mutated afterwards (only the TSS's RSP0 field changes, through
// SetKernelStack).
//
// Selector layout is fixed by the SYSRET calling convention used by
// kernel/syscall: SYSRET derives SS/CS for the returning ring-3 context from
// the high half of the STAR MSR added to fixed offsets, so user-data must sit
// immediately below user-code in the table. Ground: original_source's
// gdt.c/tss.c (descriptor bit layout) and spec's fixed selector contract.
package gdt

import (
	"unsafe"

	"github.com/KibaOfficial/KiOS/kernel"
	"github.com/KibaOfficial/KiOS/kernel/cpu"
)

// Selectors. Ring-3 selectors OR in the RPL (3).
const (
	KernelCodeSelector = uint16(0x08)
	KernelDataSelector = uint16(0x10)
	UserDataSelector   = uint16(0x18)
	UserCodeSelector   = uint16(0x20)
	TSSSelector        = uint16(0x28)

	UserCodeSelectorRPL3 = UserCodeSelector | 3
	UserDataSelectorRPL3 = UserDataSelector | 3
)

// descriptor bit patterns for the flat code/data segments. Base and limit
// are ignored by the CPU in long mode except for the flag/access bytes, so
// these mirror the canonical flat-model encoding original_source's gdt.c
// uses for gdt[1]/gdt[2] (0x00af9a000000ffff / 0x00af92000000ffff).
const (
	flatCodeDescriptor = uint64(0x00af9a000000ffff)
	flatDataDescriptor = uint64(0x00af92000000ffff)
	userDataDescriptor = uint64(0x00cff2000000ffff)
	userCodeDescriptor = uint64(0x00affa000000ffff)
)

// tss is the packed 104-byte Task State Segment layout (Intel SDM Vol. 3,
// §7.7). Only rsp0 and ist1 are used: ring-3 interrupts/syscalls load the
// kernel stack from rsp0, and the double-fault handler (IDT vector 8, IST
// index 1) always runs on the independent stack addressed by ist1.
type tss struct {
	reserved0 uint32
	rsp0      uint64
	rsp1      uint64
	rsp2      uint64
	reserved1 uint64
	ist1      uint64
	ist2      uint64
	ist3      uint64
	ist4      uint64
	ist5      uint64
	ist6      uint64
	ist7      uint64
	reserved2 uint64
	reserved3 uint16
	ioMapBase uint16
}

var (
	// table holds the 7 descriptors: null, kernel code, kernel data, user
	// data, user code, and the 16-byte TSS system descriptor occupying the
	// last two slots.
	table [7]uint64

	theTSS tss

	pointer struct {
		limit uint16
		base  uint64
	}

	// loadGDTFn and loadTSSFn are mocked by tests since the real
	// implementations execute privileged instructions (LGDT/LTR) that fault
	// outside ring 0.
	loadGDTFn = cpu.LoadGDT
	loadTSSFn = cpu.LoadTSS

	errNoDoubleFaultStack = &kernel.Error{Module: "gdt", Message: "double-fault stack must be non-empty"}
)

// Init builds the GDT and TSS, points IST1 at the top of dfStack (a
// pre-allocated double-fault stack; x86-64 stacks grow down), loads the GDT,
// reloads every segment register, and loads the task register.
func Init(dfStack []byte) *kernel.Error {
	if len(dfStack) == 0 {
		return errNoDoubleFaultStack
	}

	theTSS = tss{}
	theTSS.ist1 = uint64(uintptr(unsafe.Pointer(&dfStack[0]))) + uint64(len(dfStack))
	theTSS.ioMapBase = uint16(unsafe.Sizeof(theTSS))

	table[0] = 0
	table[1] = flatCodeDescriptor
	table[2] = flatDataDescriptor
	table[3] = userDataDescriptor
	table[4] = userCodeDescriptor
	setTSSDescriptor()

	pointer.limit = uint16(unsafe.Sizeof(table)) - 1
	pointer.base = uint64(uintptr(unsafe.Pointer(&table[0])))

	loadGDTFn(uintptr(unsafe.Pointer(&pointer)), KernelCodeSelector, KernelDataSelector)
	loadTSSFn(TSSSelector)

	return nil
}

// setTSSDescriptor packs the 16-byte system descriptor for the TSS into
// table[5]/table[6], matching original_source's gdt.c bit-twiddling for
// gdt[3]/gdt[4] but addressed against theTSS instead of a caller-supplied
// pointer since the TSS is now owned by this package.
func setTSSDescriptor() {
	base := uint64(uintptr(unsafe.Pointer(&theTSS)))
	limit := uint64(unsafe.Sizeof(theTSS)) - 1

	table[5] = (limit & 0xffff) |
		((base & 0xffffff) << 16) |
		(0x89 << 40) |
		((limit & 0xf0000) << 32) |
		((base & 0xff000000) << 32)
	table[6] = base >> 32
}

// SetKernelStack updates TSS.RSP0, the kernel stack the CPU switches to on
// any ring-3 -> ring-0 transition (interrupt, exception or syscall). Called
// by kernel/syscall.SetKernelStack, which the usertest shell command runs
// before jumping into ring 3; kernel/task's Switch does not update it.
func SetKernelStack(top uintptr) {
	theTSS.rsp0 = uint64(top)
}

// KernelStack returns the kernel stack currently installed in TSS.RSP0.
func KernelStack() uintptr {
	return uintptr(theTSS.rsp0)
}
