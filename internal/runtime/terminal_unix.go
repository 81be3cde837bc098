// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runtime

import (
	"io"
	"os/exec"

	"github.com/creack/pty"
)

// runInTerminal starts cmd with stdin and stdout on a new pseudo-terminal,
// forwards stdin to it and copies everything the child prints to stdout
// until it exits. The child's stderr goes straight to stderr; pty.Start only
// attaches streams that are still nil.
func runInTerminal(cmd *exec.Cmd, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd.Stderr = stderr
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = ptmx.Close() }()

	// The forwarder stops at its first write after ptmx is closed. Until
	// then it may sit in a blocking read on an idle terminal, which only
	// lasts until the process exits after its single run.
	if stdin != nil {
		go func() { _, _ = io.Copy(ptmx, stdin) }()
	}

	// The copy ends with EIO once the child closes its side of the terminal.
	_, _ = io.Copy(stdout, ptmx)

	return cmd.Wait()
}
