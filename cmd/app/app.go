// @title			Zaytuna Store API
// @version		1.0
// @description	Бэкенд витрины: каталог, заказы, WhatsApp-обращения, админ-панель.
// @BasePath		/api/v1
//
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/zaytuna-store/go-backend/internal/app"
	config "github.com/zaytuna-store/go-backend/internal/cfg"
	"github.com/zaytuna-store/go-backend/pkg/logger"
)

func main() {
	log := logger.NewSlogLogger()

	// .env опционален, в контейнере конфигурация приходит окружением
	if err := godotenv.Load(); err != nil {
		log.Debugf(".env not loaded: %v", err)
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	if err := app.Run(cfg, log); err != nil {
		os.Exit(1)
	}
}
