package lib

import (
	"bytes"
	"io"
	"os/exec"
)

// Runner launches an OS utility and waits for it. Implementations must treat a non-zero
// exit status as a normal result carried in Output.ExitCode, not as an error.
type Runner interface {
	Run(name string, args []string, stdin []byte) (*Output, error)
}

// ExecRunner runs utilities with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(name string, args []string, stdin []byte) (*Output, error) {
	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = getPlatformSysProcAttr()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	var stdinPipe io.WriteCloser
	if stdin != nil {
		pipe, err := cmd.StdinPipe()
		if err != nil {
			return nil, &PipeError{Utility: name, Err: err}
		}
		stdinPipe = pipe
	}

	if err := cmd.Start(); err != nil {
		if stdinPipe != nil {
			stdinPipe.Close()
		}
		return nil, &InvocationError{Utility: name, Err: err}
	}

	var writeErr error
	if stdinPipe != nil {
		_, writeErr = stdinPipe.Write(stdin)
		if closeErr := stdinPipe.Close(); writeErr == nil {
			writeErr = closeErr
		}
	}

	waitErr := cmd.Wait()
	output := &Output{
		Utility: name,
		Args:    append([]string(nil), args...),
		Stdout:  stdout.Bytes(),
		Stderr:  stderr.Bytes(),
	}

	if waitErr != nil {
		exiterr, ok := waitErr.(*exec.ExitError)
		if !ok {
			return nil, &InvocationError{Utility: name, Err: waitErr}
		}

		// A utility that exits early may never read its input, so a write error is moot here.
		output.ExitCode = exiterr.ExitCode()
		return output, nil
	}

	if writeErr != nil {
		return nil, &PipeError{Utility: name, Err: writeErr}
	}

	return output, nil
}
