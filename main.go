package main

import "github.com/philipparndt/tesseractise/internal/cmd"

func main() {
	cmd.Parse()
}
