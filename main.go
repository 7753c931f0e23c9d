package main

import "case-analysis/cmd"

func main() {
	cmd.Execute()
}
