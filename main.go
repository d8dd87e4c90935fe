package main

import "github.com/tranvictor/starknetid/cmd"

func main() {
	cmd.Execute()
}
