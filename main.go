package main

import "github.com/guimove/ptufit/cmd"

func main() {
	cmd.Execute()
}
