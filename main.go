package main

import "github.com/Tiliavir/nexus/cmd"

func main() {
	cmd.Execute()
}
