// Package lib schedules shell commands through the operating system's own deferred execution
// facility: at(1) on Unix-like systems and schtasks on Windows. Nothing is tracked once the
// request has been handed over.
package lib

import (
	"runtime"

	"github.com/rs/zerolog"
)

// Submitter hands a command to an OS scheduler to be run minutes from now.
type Submitter interface {
	Submit(command string, minutes int, taskName string) (*Output, error)
}

// Config customizes the submitter returned by NewSubmitter. The zero value uses the
// utilities found on PATH.
type Config struct {
	AtPath       string
	SchtasksPath string
	Runner       Runner
	Logger       *zerolog.Logger
}

// NewSubmitter returns the Submitter for the host operating system.
func NewSubmitter(config Config) Submitter {
	return newSubmitterFor(runtime.GOOS, config)
}

func newSubmitterFor(goos string, config Config) Submitter {
	if goos == "windows" {
		return &TaskSchedulerSubmitter{
			Path:   config.SchtasksPath,
			Runner: config.Runner,
			Logger: config.Logger,
		}
	}

	return &AtSubmitter{
		Path:   config.AtPath,
		Runner: config.Runner,
		Logger: config.Logger,
	}
}

var defaultSubmitter = NewSubmitter(Config{})

// ExecuteCommandInXMinutes schedules command to run in minutes using at or schtasks depending on
// the OS, and returns the output of the scheduling utility.
//
// taskName names the Windows task so it can be found later in Task Scheduler. It is ignored
// elsewhere. A non-zero exit from the utility is reported in Output.ExitCode; errors are
// returned only when the utility could not be run or fed its input.
func ExecuteCommandInXMinutes(command string, minutes int, taskName string) (*Output, error) {
	return defaultSubmitter.Submit(command, minutes, taskName)
}

func runnerOrExec(r Runner) Runner {
	if r == nil {
		return ExecRunner{}
	}

	return r
}

func loggerOrNop(l *zerolog.Logger) *zerolog.Logger {
	if l == nil {
		nop := zerolog.Nop()
		return &nop
	}

	return l
}
