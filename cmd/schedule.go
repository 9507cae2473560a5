package cmd

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/cronitorio/execin/lib"
	"github.com/fatih/color"
	"github.com/kballard/go-shellquote"
	"github.com/manifoldco/promptui"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var taskName string
var confirm bool
var quiet bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule [flags] -- <command>",
	Short: "Schedule a command to run once in x minutes",
	Long: `
The supplied command is handed to the operating system scheduler and run once after the delay.
On Linux and macOS it is queued with at(1); on Windows a Task Scheduler task is created with schtasks.

Note: Arguments after the flags are treated as part of the command. Flags intended for the 'schedule'
command must be passed before the command, or separated from it with --.

Example:
  $ execin schedule --in 5 -- /path/to/command.sh --command-param argument1
  Runs '/path/to/command.sh --command-param argument1' five minutes from now.

Example with a task name on Windows:
  $ execin schedule --in 30 --task-name nightly-cleanup -- del /q C:\Temp\*
  Re-running with the same task name replaces the earlier task.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 || len(strings.TrimSpace(strings.Join(args, ""))) == 0 {
			return errors.New("a command is required e.g. execin schedule --in 5 -- /path/to/command.sh")
		}

		return nil
	},

	// --in is declared on more than one command, so bind whichever one is running
	PreRun: func(cmd *cobra.Command, args []string) {
		bindMinutesFlag(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		command := commandFromArgs(runtime.GOOS, args)
		minutes := viper.GetInt(varMinutes)

		name := taskName
		if len(name) == 0 {
			name = defaultTaskName(command)
		}

		if confirm && !confirmSchedule(command, minutes) {
			printWarningText(cmd.OutOrStdout(), "Nothing was scheduled")
			return nil
		}

		exitCode, err := runSchedule(cmd.OutOrStdout(), newSubmitter(), command, minutes, name)
		if err != nil {
			return err
		}

		if exitCode != 0 {
			os.Exit(exitCode)
		}

		return nil
	},
}

// runSchedule submits command and prints what the scheduling utility returned. The returned int
// is the exit status to leave with when the utility itself failed.
func runSchedule(w io.Writer, submitter lib.Submitter, command string, minutes int, name string) (int, error) {
	logger.Debug().Str("command", command).Int("minutes", minutes).Str("task", name).Msg("scheduling")

	output, err := submitter.Submit(command, minutes, name)
	if err != nil {
		return 1, err
	}

	if !quiet {
		printOutput(w, output, minutes, name)
	}

	if output.Success() {
		printSuccessText(w, fmt.Sprintf("✔ Scheduled to run in %d minutes: %s", minutes, command))
		return 0, nil
	}

	printErrorText(w, fmt.Sprintf("✗ %s exited with code %d", output.Utility, output.ExitCode))
	if output.ExitCode > 0 {
		return output.ExitCode, nil
	}

	return 1, nil
}

// commandFromArgs rebuilds a single command line from the words after the flags. A lone
// argument is taken as an already-formed command line. at runs the line with /bin/sh, so words
// are quoted for it; cmd.exe does not understand that quoting and gets the words as they are.
func commandFromArgs(goos string, args []string) string {
	if len(args) == 1 {
		return args[0]
	}

	if goos == "windows" {
		return strings.Join(args, " ")
	}

	return shellquote.Join(args...)
}

// defaultTaskName is stable for a given command, so scheduling it again replaces the earlier task.
func defaultTaskName(command string) string {
	const TaskKeyLength = 12

	h := sha256.New()
	h.Write([]byte(command))
	hashed := hex.EncodeToString(h.Sum(nil))
	return "execin-" + hashed[:TaskKeyLength]
}

func confirmSchedule(command string, minutes int) bool {
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Run '%s' in %d minutes", command, minutes),
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		if err == promptui.ErrInterrupt {
			fmt.Println("Exited by user signal")
			os.Exit(-1)
		}

		return false
	}

	return true
}

func printOutput(w io.Writer, output *lib.Output, minutes int, name string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Utility", "Delay", "Task", "Exit Code"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.Append([]string{output.Utility, fmt.Sprintf("%d min", minutes), name, strconv.Itoa(output.ExitCode)})
	table.Render()

	if stdout := strings.TrimSpace(string(output.Stdout)); len(stdout) > 0 {
		fmt.Fprintln(w, stdout)
	}
	if stderr := strings.TrimSpace(string(output.Stderr)); len(stderr) > 0 {
		fmt.Fprintln(w, stderr)
	}
}

func printSuccessText(w io.Writer, message string) {
	color.New(color.FgHiGreen).Fprintln(w, message)
}

func printWarningText(w io.Writer, message string) {
	color.New(color.FgHiYellow).Fprintln(w, message)
}

func printErrorText(w io.Writer, message string) {
	color.New(color.FgHiRed, color.Bold).Fprintln(w, message)
}

func init() {
	RootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().SetInterspersed(false)
	scheduleCmd.Flags().IntP("in", "m", 1, "Minutes from now to run the command")
	scheduleCmd.Flags().StringVarP(&taskName, "task-name", "t", taskName, "Windows task name (default: derived from the command). Ignored by at")
	scheduleCmd.Flags().BoolVar(&confirm, "confirm", confirm, "Ask before scheduling")
	scheduleCmd.Flags().BoolVarP(&quiet, "quiet", "q", quiet, "Only print the result line")
}
