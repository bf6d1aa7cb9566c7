package main

import (
	"f1score/pkg/cli"
)

func main() {
	cli.Execute()
}
