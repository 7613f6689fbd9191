package main

import "github.com/oshokin/morse-beacon/cmd/morse-sim/cmd"

func main() {
	cmd.Execute()
}
