package main

import "bods-validate/internal/cli"

func main() {
	cli.Execute()
}
