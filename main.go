package main

import "github.com/maxvaer/brutecli/cmd"

func main() {
	cmd.Execute()
}
