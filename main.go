package main

import "github.com/timvw/muxpick/cmd"

func main() {
	cmd.Execute()
}
