package pmm

import (
	"github.com/KibaOfficial/KiOS/kernel"
	"github.com/KibaOfficial/KiOS/kernel/kfmt/early"
	"github.com/KibaOfficial/KiOS/kernel/mem"
	"github.com/KibaOfficial/KiOS/kernel/mem/e820"
)

// maxManagedFrames bounds the bitmap at a fixed, statically allocated size
// so the allocator itself needs no heap (the heap is built on top of the
// PMM, not the other way around). It covers 16GB of physical memory,
// comfortably more than anything QEMU or the target hardware reports.
const maxManagedFrames = 16 * 1024 * 1024 * 1024 / uint64(mem.PageSize)

var (
	bitmap      [maxManagedFrames / 8]byte
	totalFrames uint64
	usedFrames  uint64

	errOutOfMemory = &kernel.Error{Module: "pmm", Message: "out of memory"}
)

// Init builds the frame bitmap from the BIOS memory map: every frame
// starts out marked used, usable e820 regions are cleared, and finally
// the frames spanning the loaded kernel image are re-marked as used so
// AllocFrame can never hand them out.
func Init(kernelStart, kernelEnd uintptr) {
	for i := range bitmap {
		bitmap[i] = 0xff
	}

	var maxAddr uint64
	e820.VisitRegions(func(region *e820.Entry) bool {
		if end := region.PhysAddress + region.Length; end > maxAddr {
			maxAddr = end
		}
		return true
	})

	totalFrames = maxAddr / uint64(mem.PageSize)
	if totalFrames > maxManagedFrames {
		totalFrames = maxManagedFrames
	}
	usedFrames = totalFrames

	e820.VisitRegions(func(region *e820.Entry) bool {
		if region.Type != e820.Usable {
			return true
		}

		start := region.PhysAddress / uint64(mem.PageSize)
		pages := region.Length / uint64(mem.PageSize)
		for p := uint64(0); p < pages; p++ {
			clearFrame(start + p)
		}
		return true
	})

	startFrame := uint64(kernelStart) / uint64(mem.PageSize)
	endFrame := (uint64(kernelEnd) + uint64(mem.PageSize) - 1) / uint64(mem.PageSize)
	for f := startFrame; f < endFrame; f++ {
		setFrame(f)
	}

	early.Printf("[pmm] %d frames total, %d reserved at boot\n", totalFrames, usedFrames)
}

func setFrame(idx uint64) {
	byteIdx := idx / 8
	bit := byte(1 << (idx % 8))
	if bitmap[byteIdx]&bit == 0 {
		bitmap[byteIdx] |= bit
		usedFrames++
	}
}

func clearFrame(idx uint64) {
	byteIdx := idx / 8
	bit := byte(1 << (idx % 8))
	if bitmap[byteIdx]&bit != 0 {
		bitmap[byteIdx] &^= bit
		usedFrames--
	}
}

func frameFree(idx uint64) bool {
	return bitmap[idx/8]&(1<<(idx%8)) == 0
}

// AllocFrame scans the bitmap for the first free frame, marks it used and
// returns it. It returns an error if no frame is available.
func AllocFrame() (Frame, *kernel.Error) {
	for idx := uint64(0); idx < totalFrames; idx++ {
		if frameFree(idx) {
			setFrame(idx)
			return Frame(idx), nil
		}
	}
	return InvalidFrame, errOutOfMemory
}

// FreeFrame returns a previously allocated frame to the pool.
func FreeFrame(f Frame) {
	clearFrame(uint64(f))
}

// TotalFrames returns the number of frames the allocator is managing.
func TotalFrames() uint64 {
	return totalFrames
}

// UsedFrames returns the number of frames currently marked allocated.
func UsedFrames() uint64 {
	return usedFrames
}
