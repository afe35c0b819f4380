package main

import "github.com/jsphweid/pond/cmd"

func main() {
	cmd.Execute()
}
