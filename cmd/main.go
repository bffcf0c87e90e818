package main

import (
	"github.com/avolkov/shop-svc/internal/app"
	"github.com/avolkov/shop-svc/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
