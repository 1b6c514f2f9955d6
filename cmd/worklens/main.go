package main

import "worklens/cmd/worklens/commands"

func main() {
	commands.Execute()
}
