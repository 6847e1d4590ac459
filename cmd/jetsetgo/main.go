package main

import "github.com/example/jetsetgo/cmd"

func main() {
	cmd.Execute()
}
