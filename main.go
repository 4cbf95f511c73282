package main

import "github.com/kozaktomas/nameforge/cmd"

func main() {
	cmd.Execute()
}
