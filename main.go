// Package main is the entry point for the drawsync application
package main

import (
	"github.com/delcain/drawsync/cmd"
)

func main() {
	cmd.Execute()
}
