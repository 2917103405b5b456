package main

import "github.com/podbrief/podbrief/cmd"

func main() {
	cmd.Execute()
}
