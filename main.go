package main

import (
	"github.com/barline/barline/cmd"
)

func main() {
	cmd.Execute()
}
