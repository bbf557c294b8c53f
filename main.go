package main

import "github.com/KaramelBytes/bikedash-cli/cmd"

func main() {
	cmd.Execute()
}
