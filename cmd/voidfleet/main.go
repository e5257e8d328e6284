package main

import "github.com/andrescamacho/voidfleet-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
