// Package syscall programs the SYSCALL/SYSRET MSRs and dispatches the
// fixed syscall table invoked from ring 3 through the hand-written
// syscall_entry trampoline. Ground: original_source's src/kernel/syscall.c,
// re-expressed with a package-level function-variable mocking idiom
// instead of C's direct hardware access.
package syscall

import (
	"unsafe"

	"github.com/KibaOfficial/KiOS/kernel/cpu"
	"github.com/KibaOfficial/KiOS/kernel/gdt"
	"github.com/KibaOfficial/KiOS/kernel/kfmt"
)

const (
	msrEFER   = 0xC0000080
	msrSTAR   = 0xC0000081
	msrLSTAR  = 0xC0000082
	msrSFMASK = 0xC0000084

	msrGSBase       = 0xC0000101
	msrKernelGSBase = 0xC0000102

	eferSCE = 1 << 0

	sfmaskIF = 1 << 9
	sfmaskTF = 1 << 8
	sfmaskDF = 1 << 10
)

// Syscall numbers, matching the fixed table original_source's ring-3 demo
// programs use directly (mov rax, N; syscall).
const (
	SysExit  = 0
	SysWrite = 1
	SysRead  = 2
	SysYield = 3
)

// perCPU is the per-CPU block addressed via GS.Base while the kernel is
// running, and via KernelGS.Base (after swapgs) the instant a ring-3
// syscall_entry fires. Both MSRs are pointed at the same struct: the
// swapgs on entry to and exit from syscall_entry then cancel out
// regardless of how many times it runs, so there is exactly one
// perCPU value on this single-CPU kernel and its fields are always valid
// through GS no matter which ring last touched it.
type perCPU struct {
	kernelStack uint64
	userStack   uint64
	currentTask uint64
}

var cpuData perCPU

// syscallEntryAddr is a bodyless declaration backed by syscall_entry_amd64.s;
// it returns the address of the hand-written SYSCALL trampoline so LSTAR
// can be pointed at it. LSTAR needs a bare code address, not a Go func
// value's closure representation, so the trampoline's own address is
// fetched with a LEAQ rather than taken with Go's "&" operator.
func syscallEntryAddr() uintptr

var (
	readMSRFn  = cpu.ReadMSR
	writeMSRFn = cpu.WriteMSR

	entryAddrFn = syscallEntryAddr

	yieldFn = func() {}

	haltFn = cpu.Halt
)

// SetYieldFn wires SysYield to the scheduler's voluntary-yield path.
// kernel/syscall cannot import kernel/task directly without risking an
// import cycle through kernel/irq, so the dependency is injected like
// kernel/pit's SetTaskSwitchFn.
func SetYieldFn(fn func()) {
	yieldFn = fn
}

// Init programs EFER, STAR, LSTAR and SFMASK for SYSCALL/SYSRET and points
// both GS-base MSRs at the per-CPU block, following original_source's
// syscall_init order exactly.
func Init() {
	cpuData = perCPU{}

	efer := readMSRFn(msrEFER)
	efer |= eferSCE
	writeMSRFn(msrEFER, efer)

	// Bits 47:32 = SYSCALL CS/SS base (kernel code, SS = CS+8).
	// Bits 63:48 = SYSRET CS/SS base (user data at base+8, user code at
	// base+16), matching kernel/gdt's selector layout exactly.
	star := uint64(gdt.KernelCodeSelector)<<32 | uint64(gdt.KernelDataSelector)<<48
	writeMSRFn(msrSTAR, star)

	writeMSRFn(msrLSTAR, uint64(entryAddrFn()))

	writeMSRFn(msrSFMASK, sfmaskIF|sfmaskTF|sfmaskDF)

	base := uint64(uintptr(unsafe.Pointer(&cpuData)))
	writeMSRFn(msrGSBase, base)
	writeMSRFn(msrKernelGSBase, base)
}

// SetKernelStack records the RSP0 the next syscall_entry should switch to,
// mirroring gdt.SetKernelStack so both the TSS and the per-CPU block agree
// on the kernel stack a trapped ring-3 task resumes on.
func SetKernelStack(top uintptr) {
	cpuData.kernelStack = uint64(top)
	gdt.SetKernelStack(top)
}

// Dispatch runs the fixed syscall table: num selects the call (SysExit,
// SysWrite, ...) and arg1-arg3 are its raw arguments, matching the
// rax/rdi/rsi/rdx register convention syscall_entry reads off the ring-3
// caller's registers (rcx and r11 are reserved for SYSCALL/SYSRET's own
// use and are never repurposed as argument registers).
func Dispatch(num, arg1, arg2, arg3 uint64) uint64 {
	switch num {
	case SysExit:
		// original_source's sys_exit never returns to its caller; there is
		// no process table to reap the task into, so the CPU just stops.
		for {
			haltFn()
		}

	case SysWrite:
		if arg1 != 1 {
			return ^uint64(0)
		}
		buf := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(arg2))), int(arg3))
		kfmt.Printf("%s", string(buf))
		return arg3

	case SysRead:
		return ^uint64(0)

	case SysYield:
		yieldFn()
		return 0

	default:
		return ^uint64(0)
	}
}

// dispatch is the asm-callable entry point syscall_entry invokes directly;
// Dispatch stays exported so shell commands and tests can drive the
// syscall table without going through a real SYSCALL trap.
func dispatch(num, arg1, arg2, arg3 uint64) uint64 {
	return Dispatch(num, arg1, arg2, arg3)
}

// JumpToUsermode drops to ring 3 at userEntry running on userStack; its
// body lives in usermode_amd64.s. Callers must have already mapped both
// addresses with FlagUser and called SetKernelStack so a subsequent
// interrupt or SYSCALL has a ring-0 stack to land on.
func JumpToUsermode(userStack, userEntry uintptr)
