package main

import (
	"github.com/tverkroost/envcheck/cmd"
)

// version is the current version of envcheck.
// It is set at build time by using -ldflags "-X main.version=x.x.x"
var version string

func main() {
	cmd.Execute(version)
}
