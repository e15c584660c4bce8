package main

import "github.com/gnames/wilayah/cmd"

func main() {
	cmd.Execute()
}
