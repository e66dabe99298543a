package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/shakeeb2001/Weather-App/internal/app"
	"github.com/shakeeb2001/Weather-App/internal/config"
)

// @title Weather Report API
// @version 1.0
// @description Stores email/location pairs and emails scheduled PDF weather reports
// @host localhost:4000
// @BasePath /
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Panic(err)
	}

	logger := log.New(log.Writer(), "WeatherApp: ", log.LstdFlags)

	application := app.New(*cfg, logger)
	srvContainer := application.Init()

	defer func() {
		if err := application.Stop(srvContainer); err != nil {
			log.Panicf("failed to shutdown application: %v", err)
		}
		log.Println("Application shutdown successfully")
	}()

	if err := application.Start(srvContainer); err != nil {
		log.Panic(err)
	}
}
