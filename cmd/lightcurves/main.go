package main

import "github.com/turbolytics/lightcurves/internal/cmd"

func main() {
	cmd.Execute()
}
