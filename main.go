package main

import "github.com/AkiNeko11/MyCompiler/cmd"

func main() {
	cmd.Execute()
}
