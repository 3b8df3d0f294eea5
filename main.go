package main

import "github.com/RamXX/redsheet/cmd"

func main() {
	cmd.Execute()
}
