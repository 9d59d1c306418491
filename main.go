package main

import "ax-dashboard/cmd/server"

func main() {
	server.Init()
	server.Run()
}
