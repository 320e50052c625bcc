package main

import (
	"github.com/lepinkainen/vapor/cmd"
)

var execute = cmd.Execute

func main() {
	execute()
}
