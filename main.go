package main

import "mailsched/cmd"

func main() {
	cmd.Execute()
}
