package main

import "pipdeps/internal/cli"

func main() {
	cli.Execute()
}
