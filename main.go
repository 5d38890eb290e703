package main

import "ratlist/cmd"

func main() {
	cmd.Execute()
}
