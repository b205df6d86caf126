// tinctd - Wallpaper-driven Material colour themes
//
// tinctd rotates your wallpaper, generates a Material You colour scheme from
// its dominant colour and exports it for your bar, launcher and terminal.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import "github.com/jmylchreest/tinctd/internal/cli"

func main() {
	cli.Execute()
}
