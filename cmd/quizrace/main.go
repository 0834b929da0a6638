package main

import (
	"github.com/mcoot/quizrace/internal/cli"
)

func main() {
	cli.Execute()
}
