package main

import "github.com/audiolibrelab/memocapture/cmd"

func main() {
	cmd.Execute()
}
