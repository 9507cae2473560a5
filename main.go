package main

import "github.com/cronitorio/execin/cmd"

func main() {
	cmd.Execute()
}
