package main

import "github.com/minou2442/clinic/cmd"

func main() {
	cmd.Execute()
}
