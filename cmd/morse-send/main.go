package main

import "github.com/oshokin/morse-beacon/cmd/morse-send/cmd"

func main() {
	cmd.Execute()
}
