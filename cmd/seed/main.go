package main

import (
	"context"
	"log"
	"time"

	"interviewio/internal/app"
	"interviewio/internal/config"
	"interviewio/internal/model"
)

// seed opens one practice room per supported language for local development
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := app.New(ctx, config.Load(), config.DefaultSpeechConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close(context.Background())

	for _, lang := range model.Languages() {
		room, err := a.RoomService.CreateRoom(ctx, &model.CreateRoomRequest{
			Title:    "Practice: " + lang.DisplayName(),
			Language: lang,
		})
		if err != nil {
			log.Fatalf("Failed to create %s room: %v", lang, err)
		}

		join, err := a.RoomService.JoinRoom(ctx, room.Code, "Interviewer")
		if err != nil {
			log.Fatalf("Failed to join room %s: %v", room.Code, err)
		}

		log.Printf("%-10s room %s  token %s", lang, room.Code, join.Token)
	}
}
