package main

import "github.com/guimove/scenequery/cmd"

func main() {
	cmd.Execute()
}
