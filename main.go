package main

import "github.com/motorlab/carscope/cmd"

func main() {
	cmd.Execute()
}
