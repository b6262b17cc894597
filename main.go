package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/spf13/cobra"

	"github.com/brenton-keller/babynames/analysis"
	"github.com/brenton-keller/babynames/config"
	"github.com/brenton-keller/babynames/domain/models"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "babynames",
		Short:        "Classify US baby names and infer where new names first took hold",
		SilenceUsage: true,
	}
	root.AddCommand(newBotCmd(), newFetchCmd(), newClassifyCmd(), newOriginsCmd(), newOriginCmd())
	return root
}

// loadSession builds a classified session from cached (or freshly
// downloaded) SSA data.
func loadSession() (*ExplorerSession, error) {
	cfg := config.GetConfig()
	session := NewExplorerSession(cfg.CutoffYear)
	if err := session.EnsureData(cfg); err != nil {
		return nil, err
	}
	if err := session.Classify(); err != nil {
		return nil, err
	}
	return session, nil
}

func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram query bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			if cfg.TgToken == "" {
				return fmt.Errorf("TG_TOKEN is not configured")
			}

			session, err := loadSession()
			if err != nil {
				return err
			}

			bot, err := tgbotapi.NewBotAPI(cfg.TgToken)
			if err != nil {
				return fmt.Errorf("tg error: %w", err)
			}
			log.Printf("Authorized on account %s", bot.Self.UserName)

			u := tgbotapi.NewUpdate(0)
			u.Timeout = 60
			updates, err := bot.GetUpdatesChan(u)
			if err != nil {
				return err
			}
			for update := range updates {
				if update.Message == nil {
					continue
				}
				if update.Message.Text != "" {
					go handleText(bot, session, update)
				}
			}
			return nil
		},
	}
}

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download the SSA datasets and fill the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			session := NewExplorerSession(cfg.CutoffYear)
			return session.EnsureData(cfg)
		},
	}
}

func newClassifyCmd() *cobra.Command {
	var save bool
	var top int
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify every name and print the summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := loadSession()
			if err != nil {
				return err
			}
			classified := session.CurrentClassified()
			fmt.Println(GenerateClassificationSummaryTable(classified))
			fmt.Println("\nTop TRULY_NEW names by modern births:")
			fmt.Println(GenerateTopNamesTable(classified, models.CategoryTrulyNew, top))
			fmt.Println("\nTop EMERGING names by modern births:")
			fmt.Println(GenerateTopNamesTable(classified, models.CategoryEmerging, top))

			if save {
				return saveSession(session)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "persist results to ClickHouse")
	cmd.Flags().IntVar(&top, "top", 15, "how many names to list per category")
	return cmd
}

func newOriginsCmd() *cobra.Command {
	var save bool
	var limit int
	params := analysis.DefaultOriginParams()
	cmd := &cobra.Command{
		Use:   "origins",
		Short: "Detect geographic origins for all eligible names",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := loadSession()
			if err != nil {
				return err
			}
			if err := session.DetectOrigins(params); err != nil {
				return err
			}
			origins := session.CurrentOrigins()
			confident := analysis.ConfidentOrigins(origins, params.ConfidenceThreshold)
			fmt.Printf("%d names analyzed, %d with confidence >= %.2f\n\n",
				len(origins), len(confident), params.ConfidenceThreshold)
			fmt.Println(GenerateOriginsTable(origins, limit))

			if save {
				return saveSession(session)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "persist results to ClickHouse")
	cmd.Flags().IntVar(&limit, "limit", 40, "how many rows to print")
	cmd.Flags().IntVar(&params.MinStates, "min-states", params.MinStates, "minimum early-window states to pick an origin")
	cmd.Flags().IntVar(&params.MinTotalBirths, "min-births", params.MinTotalBirths, "minimum total state births to analyze a name")
	cmd.Flags().Float64Var(&params.ConfidenceThreshold, "confidence", params.ConfidenceThreshold, "threshold for the confident subset")
	return cmd
}

func newOriginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "origin <name> <m|f>",
		Short: "Investigate the origin of a single name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			sex := models.Sex(strings.ToUpper(args[1]))
			if sex != models.SexMale && sex != models.SexFemale {
				return fmt.Errorf("sex must be m or f, got %q", args[1])
			}

			session, err := loadSession()
			if err != nil {
				return err
			}
			cn, found := session.LookupClassification(name, sex)
			if !found {
				return fmt.Errorf("no birth records found for %s (%s)", name, sex)
			}
			fmt.Println(FormatClassification(cn))
			fmt.Println()

			result, err := session.LookupOrigin(name, sex)
			if err != nil {
				return err
			}
			if result == nil {
				fmt.Printf("%s (%s) has too few state-level births to analyze an origin.\n", name, sex)
				return nil
			}
			fmt.Println(FormatOrigin(*result))
			return nil
		},
	}
}

func saveSession(session *ExplorerSession) error {
	cfg := config.GetConfig()
	if cfg.DbDsn == "" {
		return fmt.Errorf("DB_DSN is not configured")
	}
	db, err := connectClickHouse(cfg.DbDsn)
	if err != nil {
		return err
	}
	suffix := newTableSuffix()
	if _, err := saveClassifiedToClickHouse(db, suffix, session.CurrentClassified()); err != nil {
		return err
	}
	if origins := session.CurrentOrigins(); origins != nil {
		if _, err := saveOriginsToClickHouse(db, suffix, origins); err != nil {
			return err
		}
	}
	return nil
}
