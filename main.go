package main

import "restaurant-site/cmd/commands"

func main() {
	commands.Execute()
}
