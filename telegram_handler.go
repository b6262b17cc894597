package main

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/brenton-keller/babynames/domain/models"
)

const welcomeText = `Hi! 👋

I answer questions about US baby-name adoption using SSA birth records.

What I can do:
- Classify any name: ESTABLISHED, RISING, EMERGING, TRULY_NEW or OTHER
- Infer the most likely state and year a new name took hold, with a confidence score
- Plot the national births-per-year trend for a name

How to ask:
1. Send a name and a sex code, e.g. "Khaleesi F" or "Aiden M"
2. Or just a name, e.g. "Nevaeh", to see both sexes
3. Or use commands:
/classify_khaleesi_f — classification detail
/origin_khaleesi_f — geographic origin estimate
/trend_khaleesi_f — births-per-year chart
/explain_truly_new — what a category means
/summary — classification table for the whole dataset
/origins — best origin candidates across all eligible names
/save — persist the current results to ClickHouse`

// handleText answers free-text queries ("Khaleesi F", "Nevaeh") and routes
// slash commands.
func handleText(bot *tgbotapi.BotAPI, session *ExplorerSession, update tgbotapi.Update) {
	message := update.Message
	if message.IsCommand() {
		handleCommand(bot, session, update)
		return
	}

	name, sex, ok := parseNameQuery(message.Text)
	if !ok {
		msg := tgbotapi.NewMessage(message.Chat.ID, welcomeText)
		bot.Send(msg)
		return
	}

	sexes := []models.Sex{models.SexFemale, models.SexMale}
	if sex != "" {
		sexes = []models.Sex{sex}
	}
	replies := []string{}
	for _, s := range sexes {
		cn, found := session.LookupClassification(name, s)
		if !found {
			continue
		}
		replies = append(replies, FormatClassification(cn))
	}
	if len(replies) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "No birth records found for that name. Check the spelling, or send /start for help.")
		bot.Send(msg)
		return
	}
	msg := tgbotapi.NewMessage(message.Chat.ID, strings.Join(replies, "\n\n"))
	bot.Send(msg)
}

// parseNameQuery reads "Name" or "Name M"/"Name F" out of a chat message.
func parseNameQuery(text string) (string, models.Sex, bool) {
	fields := strings.Fields(strings.TrimSpace(text))
	switch len(fields) {
	case 1:
		if !isNameLike(fields[0]) {
			return "", "", false
		}
		return fields[0], "", true
	case 2:
		sex := models.Sex(strings.ToUpper(fields[1]))
		if sex != models.SexMale && sex != models.SexFemale {
			return "", "", false
		}
		if !isNameLike(fields[0]) {
			return "", "", false
		}
		return fields[0], sex, true
	}
	return "", "", false
}

func isNameLike(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && r != '-' && r != '\'' {
			return false
		}
	}
	return true
}
