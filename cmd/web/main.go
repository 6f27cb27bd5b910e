package main

import "admarket_backend/internal/app"

func main() {
	app.Run()
}
