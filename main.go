package main

import (
	"github.com/SundayYogurt/account_service/config"
	"github.com/SundayYogurt/account_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
