// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runtime

import (
	"fmt"
	"io"
	"os/exec"
)

func runInTerminal(_ *exec.Cmd, _ io.Reader, _, _ io.Writer) error {
	return fmt.Errorf("%w: %q is not available on windows", ErrUnsupportedOutputMode, OutputTerminal)
}
