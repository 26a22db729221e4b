package browser

import "fmt"

// LaunchError means no browser could be reached, either already running or
// freshly spawned.
type LaunchError struct {
	Address  string
	Attempts int
	Err      error
}

func (e *LaunchError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("browser not reachable at %s after %d attempts: %v", e.Address, e.Attempts, e.Err)
	}
	return fmt.Sprintf("failed to launch browser for %s: %v", e.Address, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}
