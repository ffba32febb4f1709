package main

import "binobj/cmd/binobjd/cmd"

func main() {
	cmd.Execute()
}
