package main

import (
	"github.com/notargets/femsolids/cmd"
)

func main() {
	cmd.Execute()
}
