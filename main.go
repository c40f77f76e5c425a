package main

import "github.com/zkiln/radmin/cmd"

func main() {
	cmd.Execute()
}
