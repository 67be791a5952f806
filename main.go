package main

import "github.com/fluxnote/scribe/cmd"

func main() {
	cmd.Execute()
}
