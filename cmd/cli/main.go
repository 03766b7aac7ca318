package main

import "softwire/cmd/cli/command"

func main() {
	command.Execute()
}
