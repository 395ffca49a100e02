// cubetwist - a 3x3x3 puzzle cube for the terminal, optionally mirroring a GoCube.
package main

import (
	"github.com/SeamusWaldron/cubetwist/internal/cli"
)

func main() {
	cli.Execute()
}
