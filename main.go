// The main package for the hololive executable.
package main

import (
	"github.com/JakeFAU/holodule/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
