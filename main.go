package main

import "activity-marketplace/cmd"

func main() {
	cmd.Execute()
}
