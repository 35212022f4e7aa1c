package main

import "github.com/nfrund/codebattle/cmd/codebattle-cli/cmd"

func main() {
	cmd.Execute()
}
