package main

import "userservice/internal/app"

func main() {
	app.Run()
}
