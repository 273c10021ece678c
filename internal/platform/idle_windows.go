//go:build windows

package platform

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"
)

var (
	user32           = syscall.NewLazyDLL("user32.dll")
	kernel32         = syscall.NewLazyDLL("kernel32.dll")
	getLastInputInfo = user32.NewProc("GetLastInputInfo")
	getTickCount64   = kernel32.NewProc("GetTickCount64")
)

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

type lastInput struct{}

func newIdleProvider() IdleProvider {
	return lastInput{}
}

func (lastInput) IdleDuration() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	if ok, _, err := getLastInputInfo.Call(uintptr(unsafe.Pointer(&info))); ok == 0 {
		return 0, fmt.Errorf("GetLastInputInfo: %w", err)
	}
	ticks, _, _ := getTickCount64.Call()
	// dwTime is a 32-bit tick count that wraps every 49.7 days.
	idle := uint32(uint64(ticks)) - info.dwTime
	return time.Duration(idle) * time.Millisecond, nil
}
