package main

import (
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// Telegram compresses photos; charts above this size go out as documents so
// the axis labels stay readable.
const maxSizePhoto = 150000

// sendTrendChart sends a rendered trend chart to the chat, as a photo when
// small enough and as a document otherwise.
func sendTrendChart(api *tgbotapi.BotAPI, chatID int64, graph []byte, name, sex string) {
	fileName := fmt.Sprintf("trend_%s_%s_%s.png",
		name,
		sex,
		time.Now().Format("20060102-150405"))

	pngFile := tgbotapi.FileBytes{
		Name:  fileName,
		Bytes: graph,
	}
	caption := fmt.Sprintf("National births per year: %s (%s)", name, sex)

	if len(graph) <= maxSizePhoto {
		photoMsg := tgbotapi.NewPhotoUpload(chatID, pngFile)
		photoMsg.Caption = caption
		if _, err := api.Send(photoMsg); err != nil {
			log.Printf("Error sending trend chart for %s (%s): %v", name, sex, err)
			errMsg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Could not send the trend chart. Error: %v", err))
			api.Send(errMsg)
		}
		return
	}

	docMsg := tgbotapi.NewDocumentUpload(chatID, pngFile)
	docMsg.Caption = caption
	if _, err := api.Send(docMsg); err != nil {
		log.Printf("Error sending trend chart for %s (%s): %v", name, sex, err)
		errMsg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Could not send the trend chart. Error: %v", err))
		api.Send(errMsg)
	}
}
