package main

import "github.com/notargets/fefield/cmd"

func main() {
	cmd.Execute()
}
