package main

import "github.com/mvp-joe/funcloc/internal/cli"

func main() {
	cli.Execute()
}
