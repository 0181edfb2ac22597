package main

import "github.com/kalisp/OpenCue/cmd"

func main() {
	cmd.Execute()
}
