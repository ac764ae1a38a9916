package main

import (
	"log"

	"github.com/aussiebroadwan/pamconnect/internal/pamstub/app"
)

//go:generate swag init -g router.go -d ../../internal/pamstub/http,../../pkg/pamsdk,../../pkg/httpx -o ../../api/pamstub --outputTypes go

func main() {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
