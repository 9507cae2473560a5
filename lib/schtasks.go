package lib

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const DefaultSchtasksPath = "schtasks"

// triggerTimeLayout is the HH:MM form schtasks expects for /st
const triggerTimeLayout = "15:04"

const minutesPerDay = 24 * 60

// maxDurationMinutes is the largest delay a time.Duration can hold
const maxDurationMinutes = math.MaxInt64 / int64(time.Minute)

// TaskSchedulerSubmitter creates a one-shot Windows Task Scheduler entry with schtasks.
type TaskSchedulerSubmitter struct {
	Path   string
	Runner Runner

	// Now returns the current local time. Defaults to time.Now.
	Now func() time.Time

	Logger *zerolog.Logger
}

// Submit creates (or overwrites) the task named taskName so that command runs once, minutes from
// now, in a minimized cmd window. The returned output is that of schtasks, not of command.
func (s *TaskSchedulerSubmitter) Submit(command string, minutes int, taskName string) (*Output, error) {
	logger := loggerOrNop(s.Logger)

	startTime, err := triggerTime(s.now(), minutes)
	if err != nil {
		return nil, errors.Wrapf(err, "scheduling task %q", taskName)
	}

	path := s.path()
	args := schtasksArgs(command, taskName, startTime)
	logger.Debug().Str("utility", path).Strs("args", args).Str("task", taskName).Msg("creating scheduled task")

	output, err := runnerOrExec(s.Runner).Run(path, args, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "scheduling task %q", taskName)
	}

	logger.Debug().Int("exit_code", output.ExitCode).Bytes("stdout", output.Stdout).Msg("schtasks returned")
	return output, nil
}

func (s *TaskSchedulerSubmitter) path() string {
	if len(s.Path) > 0 {
		return s.Path
	}

	return DefaultSchtasksPath
}

func (s *TaskSchedulerSubmitter) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}

	return s.Now()
}

// triggerTime formats now+minutes as HH:MM in now's location. Only the wall clock is kept, so
// the result wraps across midnight: 23:58 plus 5 minutes is 00:03.
func triggerTime(now time.Time, minutes int) (string, error) {
	if now.IsZero() {
		return "", &TimeError{Err: errors.New("clock returned the zero time")}
	}

	if m := int64(minutes); m > maxDurationMinutes || m < -maxDurationMinutes {
		now = now.AddDate(0, 0, minutes/minutesPerDay)
		minutes = minutes % minutesPerDay
	}

	return now.Add(time.Duration(minutes) * time.Minute).Format(triggerTimeLayout), nil
}

func schtasksArgs(command string, taskName string, startTime string) []string {
	return []string{
		"/create",
		"/tn", taskName,
		"/tr", schtasksAction(command),
		"/sc", "once",
		"/st", startTime,
		"/f",
	}
}

// schtasksAction wraps command so the task opens a minimized shell that runs it.
func schtasksAction(command string) string {
	return fmt.Sprintf(`cmd /C start "" /MIN "cmd" "/C %s"`, command)
}
