package lib

// Output is what the scheduling utility itself printed and returned. It never contains output
// of the scheduled command, which runs later and detached from this process.
type Output struct {
	Utility  string
	Args     []string
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the scheduling utility exited with status 0.
func (o *Output) Success() bool {
	return o.ExitCode == 0
}
