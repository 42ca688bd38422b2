// Package cpu wraps the x86-64 instructions the rest of the kernel needs to
// manage interrupts, paging, I/O ports, MSRs and ring transitions as Go
// function declarations with no body; their bodies live in the
// hand-written amd64 assembly of cpu_amd64.s.
package cpu

var (
	cpuidFn = ID
)

// EnableInterrupts enables interrupt handling.
func EnableInterrupts()

// DisableInterrupts disables interrupt handling.
func DisableInterrupts()

// Halt stops instruction execution.
func Halt()

// Pause executes a PAUSE instruction, hinting to the CPU that the current
// code is in a spin-wait loop so it can de-pipeline and save power.
func Pause()

// FlushTLBEntry flushes a TLB entry for a particular virtual address.
func FlushTLBEntry(virtAddr uintptr)

// SwitchPDT sets the root page table directory to point to the specified
// physical address and flushes the TLB.
func SwitchPDT(pdtPhysAddr uintptr)

// ActivePDT returns the physical address of the currently active page table.
func ActivePDT() uintptr

// ReadCR2 returns the value stored in the CR2 register.
func ReadCR2() uint64

// ID returns information about the CPU and its features. It
// is implemented as a CPUID instruction with EAX=leaf and
// returns the values in EAX, EBX, ECX and EDX.
func ID(leaf uint32) (uint32, uint32, uint32, uint32)

// PortReadByte reads a single byte from an I/O port (in al, dx).
func PortReadByte(port uint16) uint8

// PortWriteByte writes a single byte to an I/O port (out dx, al).
func PortWriteByte(port uint16, value uint8)

// PortReadWord reads a 16-bit word from an I/O port.
func PortReadWord(port uint16) uint16

// PortWriteWord writes a 16-bit word to an I/O port.
func PortWriteWord(port uint16, value uint16)

// PortReadDword reads a 32-bit dword from an I/O port.
func PortReadDword(port uint16) uint32

// PortWriteDword writes a 32-bit dword to an I/O port.
func PortWriteDword(port uint16, value uint32)

// IOWait performs a dummy write to port 0x80 to burn a few cycles; it
// gives older hardware such as the 8259 PIC time to process the
// previous out instruction during the ICW remap sequence.
func IOWait()

// ReadMSR reads the model-specific register identified by msr.
func ReadMSR(msr uint32) uint64

// WriteMSR writes value to the model-specific register identified by msr.
func WriteMSR(msr uint32, value uint64)

// SwapGS exchanges the GS.Base and KernelGS.Base MSRs. The syscall entry
// and exit trampoline uses it to pivot GS between the per-CPU block and
// whatever GS pointed to in the interrupted context.
func SwapGS()

// LoadGDT loads the GDT pseudo-descriptor at descAddr, reloads the data
// segment registers with dataSelector, then performs a far return through
// codeSelector to reload CS.
func LoadGDT(descAddr uintptr, codeSelector, dataSelector uint16)

// LoadTSS loads the task register with a GDT selector.
func LoadTSS(selector uint16)

// LoadIDT loads the IDT pseudo-descriptor at descAddr.
func LoadIDT(descAddr uintptr)

// TriggerFault raises a vector-0 interrupt. With a valid IDT this reaches
// the divide-error handler; with a null IDT (see LoadIDT(0)) the CPU can't
// find a handler and triple-faults instead, which resets the board.
func TriggerFault()

// TriggerDivideByZero executes a DIV with a zero divisor, raising a real
// #DE (vector 0) through hardware rather than Go's own divide-by-zero
// check, which never reaches the IDT.
func TriggerDivideByZero()

// TriggerInvalidOpcode executes UD2, raising #UD (vector 6).
func TriggerInvalidOpcode()

// TriggerPageFault writes through addr, raising #PF (vector 14) if addr
// isn't mapped present-and-writable.
func TriggerPageFault(addr uintptr)

// MFence issues a serializing memory fence so that writes to page-table
// entries become globally visible before any write that depends on them.
func MFence()

// IsIntel returns true if the code is running on an Intel processor.
func IsIntel() bool {
	_, ebx, ecx, edx := cpuidFn(0)
	return ebx == 0x756e6547 && // "Genu"
		edx == 0x49656e69 && // "ineI"
		ecx == 0x6c65746e // "ntel"
}
