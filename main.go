package main

import "worksync/cmd"

func main() {
	cmd.Execute()
}
