package main

import "github.com/Borislavv/go-ash-evict/cmd/ashevict/cmd"

func main() {
	cmd.Execute()
}
