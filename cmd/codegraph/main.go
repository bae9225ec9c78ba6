package main

import "github.com/mvp-joe/codegraph/internal/cli"

func main() {
	cli.Execute()
}
