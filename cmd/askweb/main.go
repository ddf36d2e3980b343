package main

import "github.com/diogo/askweb/internal/commands"

func main() {
	commands.Execute()
}
