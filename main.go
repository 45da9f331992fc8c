package main

import "github.com/ColbyCabrera/harmonia/cmd"

func main() {
	cmd.Execute()
}
