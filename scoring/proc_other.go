//go:build !linux

package scoring

import "os/exec"

// setPlatformSpecificAttrs is a no-op: without Pdeathsig the specialist is
// stopped through the command context.
func setPlatformSpecificAttrs(_ *exec.Cmd) {}
