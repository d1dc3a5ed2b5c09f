package main

import "github.com/docnav/docnav/cmd"

func main() {
	cmd.Execute()
}
