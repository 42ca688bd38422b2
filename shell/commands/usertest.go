package commands

import (
	"unsafe"

	"github.com/KibaOfficial/KiOS/kernel/cpu"
	"github.com/KibaOfficial/KiOS/kernel/mem"
	"github.com/KibaOfficial/KiOS/kernel/mem/pmm"
	"github.com/KibaOfficial/KiOS/kernel/mem/vmm"
	"github.com/KibaOfficial/KiOS/kernel/syscall"
	"github.com/KibaOfficial/KiOS/shell"
)

const (
	usertestCodeVAddr  = uintptr(0x400000)
	usertestStackVAddr = uintptr(0x800000)
)

// usertestProgram is hand-assembled position-independent ring-3 code: it
// calls sys_write(1, msg, 14) followed by sys_exit(0), then spins in case
// either syscall returns. Register convention is RAX=syscall number,
// RDI=arg1, RSI=arg2, RDX=arg3, matching kernel/syscall's dispatch ABI.
var usertestProgram = []byte{
	// lea rsi, [rip+34]  ; rsi = &msg
	0x48, 0x8d, 0x35, 0x22, 0x00, 0x00, 0x00,
	// mov rax, 1          ; SysWrite
	0x48, 0xc7, 0xc0, 0x01, 0x00, 0x00, 0x00,
	// mov rdi, 1          ; fd = stdout
	0x48, 0xc7, 0xc7, 0x01, 0x00, 0x00, 0x00,
	// mov rdx, 14         ; len("Hello Ring 3!\n")
	0x48, 0xc7, 0xc2, 0x0e, 0x00, 0x00, 0x00,
	// syscall
	0x0f, 0x05,
	// mov rax, 0          ; SysExit
	0x48, 0xc7, 0xc0, 0x00, 0x00, 0x00, 0x00,
	// syscall
	0x0f, 0x05,
	// jmp $
	0xeb, 0xfe,
	// "Hello Ring 3!\n"
	'H', 'e', 'l', 'l', 'o', ' ', 'R', 'i', 'n', 'g', ' ', '3', '!', '\n',
}

var usertestKernelStack [8192]byte

func init() {
	shell.Register(shell.Command{
		Name: "usertest",
		Help: "map a ring-3 program and jump into it",
		Run:  runUsertest,
	})
}

func runUsertest(_ string) {
	codeFrame, err := pmm.AllocFrame()
	if err != nil {
		printLine("ERROR: memory allocation failed!")
		return
	}
	stackFrame, err := pmm.AllocFrame()
	if err != nil {
		printLine("ERROR: memory allocation failed!")
		return
	}

	userFlags := vmm.FlagPresent | vmm.FlagRW | vmm.FlagUser
	if err := vmm.Map(vmm.PageFromAddress(usertestCodeVAddr), codeFrame, userFlags); err != nil {
		printLine("ERROR: failed to map user code page!")
		return
	}
	if err := vmm.Map(vmm.PageFromAddress(usertestStackVAddr), stackFrame, userFlags); err != nil {
		printLine("ERROR: failed to map user stack page!")
		return
	}

	dst := unsafe.Slice((*byte)(unsafe.Pointer(usertestCodeVAddr)), len(usertestProgram))
	copy(dst, usertestProgram)

	userStackTop := usertestStackVAddr + uintptr(mem.PageSize) - 16

	kStackTop := uintptr(unsafe.Pointer(&usertestKernelStack[0])) + uintptr(len(usertestKernelStack))
	syscall.SetKernelStack(kStackTop)

	cpu.SwitchPDT(cpu.ActivePDT())

	syscall.JumpToUsermode(userStackTop, usertestCodeVAddr)
}
