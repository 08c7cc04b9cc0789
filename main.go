package main

import "github.com/eskaton/thyrion/cmd"

func main() {
	cmd.Execute()
}
