package main

import "OT2Connect/internal/app"

func main() {
	app.New().Run()
}
