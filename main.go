package main

import (
	"reactsense/cmd"
)

func main() {
	cmd.Execute()
}
