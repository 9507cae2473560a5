package lib

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const DefaultAtPath = "at"

// AtSubmitter queues commands with at(1), e.g. `echo "cmd" | at now + 5 minute`.
type AtSubmitter struct {
	Path   string
	Runner Runner
	Logger *zerolog.Logger
}

// Submit hands command to at, to be run minutes from now. The task name is accepted so callers
// don't have to branch on platform, but at numbers its own jobs and taskName is ignored.
func (s *AtSubmitter) Submit(command string, minutes int, taskName string) (*Output, error) {
	path := s.path()
	args := atArgs(minutes)
	logger := loggerOrNop(s.Logger)

	logger.Debug().Str("utility", path).Strs("args", args).Str("command", command).Msg("queueing command with at")

	output, err := runnerOrExec(s.Runner).Run(path, args, atPayload(command))
	if err != nil {
		return nil, errors.Wrapf(err, "scheduling command in %d minutes", minutes)
	}

	logger.Debug().Int("exit_code", output.ExitCode).Bytes("stderr", output.Stderr).Msg("at returned")
	return output, nil
}

func (s *AtSubmitter) path() string {
	if len(s.Path) > 0 {
		return s.Path
	}

	return DefaultAtPath
}

func atArgs(minutes int) []string {
	return []string{"now", "+", strconv.Itoa(minutes), "minute"}
}

// atPayload is the line at reads from stdin: the command exactly as given, newline terminated.
func atPayload(command string) []byte {
	return []byte(command + "\n")
}
