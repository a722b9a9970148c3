//go:build windows

package lifecycle

import "os"

// TerminationSignals stop the server; Windows only delivers os.Interrupt.
func TerminationSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
