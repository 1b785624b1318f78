package main

import "CheckBtrfsDO/cmd"

func main() {
	cmd.Execute()
}
