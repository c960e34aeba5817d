package main

import "github.com/devicelab-dev/dirspec/pkg/cli"

func main() {
	cli.Execute()
}
