package engine

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID extracts the current goroutine identifier from the stack
// header ("goroutine 18 [running]:"). The runtime does not expose the
// identifier; parsing the header costs one bounded stack dump per call.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
