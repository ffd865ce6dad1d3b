package main

import (
	"os"

	"cshantyc/cmd"
	"cshantyc/report"
)

func main() {
	exitCode := 0
	defer func() {
		os.Exit(exitCode)
	}()

	defer report.CatchAborts(&exitCode)

	exitCode = cmd.Execute(os.Args)
}
