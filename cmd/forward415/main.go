package main

import "github.com/rustyeddy/forward415/internal/cli"

func main() {
	cli.Execute()
}
