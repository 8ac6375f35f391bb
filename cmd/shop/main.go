package main

import "go-shop-ms/internal/cmd"

func main() {
	cmd.Execute()
}
