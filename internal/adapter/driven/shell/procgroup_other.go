//go:build !unix

package shell

import "os/exec"

// configureProcessGroup leaves the default cancellation, which kills only the
// shell itself.
func configureProcessGroup(_ *exec.Cmd) {}
