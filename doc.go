/*
Package hueslicer splits a watertight 3D-printable lithophane mesh into a
grid of smaller tiles sized to fit a given print bed, cutting along seams
that thread through the least visually important parts of the model
instead of a naive rectangular grid.

A typical integration looks like:

	package main

	import (
		"fmt"
		"os"

		"github.com/lollotek/huforge-splitter-cli"
	)

	func main() {
		in, _ := os.Open("model.stl")
		defer in.Close()

		cfg := hueslicer.DefaultConfig()
		layout, err := hueslicer.Run(in, nil, cfg, "hueslicer", func(id hueslicer.TileID) (hueslicer.MeshWriter, error) {
			return os.Create(fmt.Sprintf("tile_%d_%d.stl", id.Row, id.Col))
		})
		if err != nil {
			panic(err)
		}
		_ = layout
	}

The package also ships a command line interface under cmd/hueslicer.
*/
package hueslicer
