package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/nutbridge-io/nutbridge/cmd/nutbridge-agent/app"
)

func main() {
	app.NewApp().Run()
}
