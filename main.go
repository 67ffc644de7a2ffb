package main

import "github.com/fauzanfathoni/convertero2an/cmd"

func main() {
	cmd.Execute()
}
