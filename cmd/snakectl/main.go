package main

import "github.com/mcoot/crowdsnake/internal/cli"

func main() {
	cli.Execute()
}
