package main

import "github.com/quatton/jarvice/apps/jarvicemock/cmd"

func main() {
	cmd.Execute()
}
