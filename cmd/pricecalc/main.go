package main

import "price-manager/internal/cli"

func main() {
	cli.Execute()
}
