package main

import (
	_ "time/tzdata"

	"github.com/s0up4200/chirp/cmd"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.SetVersion(version, buildTime)
	cmd.Execute()
}
