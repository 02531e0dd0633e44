package main

import (
	"github.com/mcoot/shiritorimatch-go/internal/cli"
)

func main() {
	cli.Execute()
}
