package main

import "holoholo/commands"

func main() {
	commands.Execute()
}
