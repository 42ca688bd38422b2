package vmm

import "github.com/KibaOfficial/KiOS/kernel/mem"

// Page describes a virtual memory page index, the virtual-address analog
// of pmm.Frame.
type Page uintptr

// Address returns the virtual address this page represents.
func (p Page) Address() uintptr {
	return uintptr(p << mem.PageShift)
}

// PageFromAddress returns the Page that contains the given virtual
// address.
func PageFromAddress(addr uintptr) Page {
	return Page(addr >> mem.PageShift)
}
