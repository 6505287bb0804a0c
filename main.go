package main

import "github.com/jazzify/chordplay/cmd"

func main() {
	cmd.Execute()
}
