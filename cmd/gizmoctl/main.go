package main

import "go_gizmo/cmd/gizmoctl/commands"

func main() {
	commands.Execute()
}
