package main

import (
	"context"
	"log"

	"github.com/Apurer/user-management-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("user management API failed: %v", err)
	}
}
