package main

import "snaplink/cmd"

func main() {
	cmd.Execute()
}
