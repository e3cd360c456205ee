package main

import "laborpay/internal/app/server"

func main() {
	server.Run()
}
