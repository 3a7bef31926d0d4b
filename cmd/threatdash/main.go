package main

import "threatdash/internal/cli"

func main() {
	cli.Execute()
}
