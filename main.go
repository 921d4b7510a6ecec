package main

import (
	"attbot/bot"
	"attbot/handlers"
)

func main() {
	bot.Run(handlers.Register)
}
