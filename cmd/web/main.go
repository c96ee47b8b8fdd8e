package main

import "homehelp_backend/internal/app"

func main() {
	app.Run()
}
