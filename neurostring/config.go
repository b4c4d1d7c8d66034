package neurostring

import (
	"os"
	"time"

	"github.com/sasha-s/go-deadlock"
)

type state struct {
	shutdown chan struct{}
	started  time.Time
}

var currentState = state{started: time.Now()}
var stateMutex = &deadlock.Mutex{}

// Shutdown closes the registered shutdown channel. If nothing has shut down cleanly within
// the grace period the process exits.
func Shutdown() {
	LogCLI("Calling Shutdown", 2)
	stateMutex.Lock()
	defer stateMutex.Unlock()
	if currentState.shutdown == nil {
		return
	}
	select {
	case <-currentState.shutdown:
		return
	default:
		close(currentState.shutdown)
	}
	go func() {
		LogCLI("Shutting down. Anything still running in 30 seconds will be killed.", 4)
		time.Sleep(time.Second * 30)
		println("Something didn't shutdown cleanly.")
		os.Exit(0)
	}()
}

// RegisterShutdownChan registers the channel that Shutdown closes.
func RegisterShutdownChan(shutdown chan struct{}) {
	stateMutex.Lock()
	defer stateMutex.Unlock()
	currentState.shutdown = shutdown
}

// Uptime is the time since this process started.
func Uptime() time.Duration {
	return time.Since(currentState.started)
}
