package main

import "github.com/scibiz/eventapp/cmd/eventapp/cmd"

func main() {
	cmd.Execute()
}
