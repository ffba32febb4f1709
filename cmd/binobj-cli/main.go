package main

import "binobj/cmd/binobj-cli/cmd"

func main() {
	cmd.Execute()
}
