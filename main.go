package main

import (
	"github.com/webchat-dev/webchat/cli"
)

func main() {
	cli.Execute()
}
