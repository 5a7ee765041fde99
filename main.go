package main

import "github.com/Qovery/sweeper/cmd"

func main() {
	cmd.Execute()
}
