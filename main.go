package main

import "github.com/quocvuong92/devos-ai/cmd"

func main() {
	cmd.Execute()
}
