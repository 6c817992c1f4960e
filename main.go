package main

import "github.com/Proxpekt/EDA-Projects/cmd"

func main() {
	cmd.Execute()
}
