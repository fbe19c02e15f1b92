package main

import "github.com/localnerve/roadmapdb/cmd/roadmapctl/commands"

func main() {
	commands.Execute()
}
