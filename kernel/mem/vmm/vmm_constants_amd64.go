package vmm

// pageLevels is the number of levels in the x86-64 paging hierarchy: PML4,
// PDPT, PD and PT.
const pageLevels = 4

// pageLevelShifts holds, for each level, the number of bits a virtual
// address is shifted right by to obtain that level's table index.
var pageLevelShifts = [pageLevels]uint8{39, 30, 21, 12}

// pageLevelBits holds the number of index bits at each paging level. Every
// x86-64 table has 512 entries, so 9 bits per level.
var pageLevelBits = [pageLevels]uint8{9, 9, 9, 9}

// pdtVirtualAddr is the virtual address used to access the active PML4
// through the recursive mapping installed in its own last entry (entry
// 511). Dereferencing this address, shifted progressively left by each
// level's index bits inside walk(), reaches every table in the hierarchy
// without needing a temporary mapping.
const pdtVirtualAddr = 0xfffffffffffff000

// tempMappingAddr is a single page of virtual address space reserved for
// MapTemporary. It sits just below the recursively-mapped region so it
// never collides with a real mapping.
const tempMappingAddr = 0xffffff7fffffe000

// ptePhysPageMask isolates the physical frame address bits of a page table
// entry, excluding the flag bits in the low 12 bits and the NX bit at 63.
const ptePhysPageMask = uintptr(0x000ffffffffff000)

// Page table entry flags. The bit positions match the x86-64 architecture
// manual; FlagUser in particular must be set not just on the leaf entry
// but on every intermediate table entry along the walk, since the CPU
// ANDs the U/S bit across all four levels when deciding whether ring 3
// may access a page.
const (
	FlagPresent       = PageTableEntryFlag(1 << 0)
	FlagRW            = PageTableEntryFlag(1 << 1)
	FlagUser          = PageTableEntryFlag(1 << 2)
	FlagWriteThrough  = PageTableEntryFlag(1 << 3)
	FlagCacheDisable  = PageTableEntryFlag(1 << 4)
	FlagAccessed      = PageTableEntryFlag(1 << 5)
	FlagDirty         = PageTableEntryFlag(1 << 6)
	FlagHugePage      = PageTableEntryFlag(1 << 7)
	FlagGlobal        = PageTableEntryFlag(1 << 8)
	FlagNoExecute     = PageTableEntryFlag(1 << 63)
)
