package main

import "tvparse/internal/cli"

func main() {
	cli.Execute()
}
