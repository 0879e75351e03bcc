package main

import "github.com/kaispeidel/reddit-pipeline/cmd/pipeline/commands"

func main() {
	commands.Execute()
}
