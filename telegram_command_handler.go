package main

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/brenton-keller/babynames/analysis"
	"github.com/brenton-keller/babynames/config"
	"github.com/brenton-keller/babynames/domain/models"
	"github.com/brenton-keller/babynames/plot"
)

func handleCommand(api *tgbotapi.BotAPI, session *ExplorerSession, update tgbotapi.Update) {
	fullCommand := update.Message.Command()

	classifyPrefix := "classify_"
	originPrefix := "origin_"
	trendPrefix := "trend_"
	explainPrefix := "explain_"

	switch {
	case strings.HasPrefix(fullCommand, classifyPrefix):
		handleClassifyCommand(api, update, session, strings.TrimPrefix(fullCommand, classifyPrefix))
	case strings.HasPrefix(fullCommand, originPrefix):
		handleOriginCommand(api, update, session, strings.TrimPrefix(fullCommand, originPrefix))
	case strings.HasPrefix(fullCommand, trendPrefix):
		handleTrendCommand(api, update, session, strings.TrimPrefix(fullCommand, trendPrefix))
	case strings.HasPrefix(fullCommand, explainPrefix):
		handleExplainCommand(api, update, strings.TrimPrefix(fullCommand, explainPrefix))
	case fullCommand == "summary":
		reply(api, update, GenerateClassificationSummaryTable(session.CurrentClassified()))
	case fullCommand == "origins":
		handleOriginsCommand(api, update, session)
	case fullCommand == "save":
		handleSaveCommand(api, update, session)
	case fullCommand == "start":
		reply(api, update, welcomeText)
	default:
		reply(api, update, "Unknown command. Send /start for the command list.")
	}
}

func reply(api *tgbotapi.BotAPI, update tgbotapi.Update, text string) {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, text)
	if _, err := api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// parseNameArgs reads "khaleesi_f" style command arguments.
func parseNameArgs(args string) (string, models.Sex, bool) {
	parts := strings.Split(args, "_")
	if len(parts) != 2 {
		return "", "", false
	}
	sex := models.Sex(strings.ToUpper(parts[1]))
	if sex != models.SexMale && sex != models.SexFemale {
		return "", "", false
	}
	return parts[0], sex, true
}

func handleClassifyCommand(api *tgbotapi.BotAPI, update tgbotapi.Update, session *ExplorerSession, args string) {
	name, sex, ok := parseNameArgs(args)
	if !ok {
		reply(api, update, "Usage: /classify_<name>_<m|f>, e.g. /classify_khaleesi_f")
		return
	}
	cn, found := session.LookupClassification(name, sex)
	if !found {
		reply(api, update, fmt.Sprintf("No birth records found for %s (%s).", name, sex))
		return
	}
	reply(api, update, FormatClassification(cn))
}

func handleOriginCommand(api *tgbotapi.BotAPI, update tgbotapi.Update, session *ExplorerSession, args string) {
	name, sex, ok := parseNameArgs(args)
	if !ok {
		reply(api, update, "Usage: /origin_<name>_<m|f>, e.g. /origin_khaleesi_f")
		return
	}
	result, err := session.LookupOrigin(name, sex)
	if err != nil {
		reply(api, update, err.Error())
		return
	}
	if result == nil {
		reply(api, update, fmt.Sprintf("%s (%s) has too few state-level births to analyze an origin.", name, sex))
		return
	}
	reply(api, update, FormatOrigin(*result))
}

func handleTrendCommand(api *tgbotapi.BotAPI, update tgbotapi.Update, session *ExplorerSession, args string) {
	name, sex, ok := parseNameArgs(args)
	if !ok {
		reply(api, update, "Usage: /trend_<name>_<m|f>, e.g. /trend_khaleesi_f")
		return
	}
	years, births := session.TrendSeries(name, sex)
	if len(years) == 0 {
		reply(api, update, fmt.Sprintf("No birth records found for %s (%s).", name, sex))
		return
	}
	title := fmt.Sprintf("%s (%s) births per year", name, string(sex))
	graph, err := plot.DrawNameTrend(title, years, births)
	if err != nil {
		log.Printf("Error rendering trend chart: %v", err)
		reply(api, update, "Could not render the trend chart.")
		return
	}
	sendTrendChart(api, update.Message.Chat.ID, graph, name, string(sex))
}

func handleExplainCommand(api *tgbotapi.BotAPI, update tgbotapi.Update, args string) {
	category := models.ParseCategory(strings.ToUpper(args))
	reply(api, update, fmt.Sprintf("%s: %s.", category, analysis.Explain(category)))
}

func handleOriginsCommand(api *tgbotapi.BotAPI, update tgbotapi.Update, session *ExplorerSession) {
	if session.CurrentOrigins() == nil {
		reply(api, update, "Scoring origin candidates, this can take a minute...")
	}
	origins, err := session.EnsureOrigins(analysis.DefaultOriginParams())
	if err != nil {
		log.Printf("Error detecting origins: %v", err)
		reply(api, update, "Origin detection failed.")
		return
	}
	confident := analysis.ConfidentOrigins(origins, analysis.DefaultOriginParams().ConfidenceThreshold)
	header := fmt.Sprintf("%d names analyzed, %d with a confident origin. Top candidates:\n", len(origins), len(confident))
	reply(api, update, header+GenerateOriginsTable(origins, 20))
}

func handleSaveCommand(api *tgbotapi.BotAPI, update tgbotapi.Update, session *ExplorerSession) {
	cfg := config.GetConfig()
	if cfg.DbDsn == "" {
		reply(api, update, "DB_DSN is not configured, nothing to save to.")
		return
	}
	db, err := connectClickHouse(cfg.DbDsn)
	if err != nil {
		log.Printf("Error connecting to clickhouse: %v", err)
		reply(api, update, "Could not connect to ClickHouse.")
		return
	}
	suffix := newTableSuffix()
	classifiedTable, err := saveClassifiedToClickHouse(db, suffix, session.CurrentClassified())
	if err != nil {
		log.Printf("Error saving classifications: %v", err)
		reply(api, update, "Saving classifications failed.")
		return
	}
	message := "Saved classifications into " + classifiedTable
	if origins := session.CurrentOrigins(); origins != nil {
		originsTable, err := saveOriginsToClickHouse(db, suffix, origins)
		if err != nil {
			log.Printf("Error saving origins: %v", err)
			reply(api, update, message+", but saving origins failed.")
			return
		}
		message += " and origins into " + originsTable
	}
	reply(api, update, message)
}
