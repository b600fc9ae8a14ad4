package main

// @title           dmchat API
// @version         1.0
// @description     Direct messaging with encryption at rest, per-side deletion, reactions and realtime delivery.

// @host            localhost:8000
// @BasePath        /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	Execute()
}
