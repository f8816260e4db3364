package main

import "questrpg/internal/cli"

func main() {
	cli.Execute()
}
