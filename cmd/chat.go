package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/founderhub/founderhub/internal/ai"
	"github.com/founderhub/founderhub/internal/logger"
	"github.com/founderhub/founderhub/internal/store"
)

const (
	askTimeout = 2 * time.Minute

	// dumpCommand writes the founder roster to a temp file for inspection.
	dumpCommand = "/dump"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the founderhub assistant from the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("founder", "f", "", "founder id to chat as; prompted interactively when unset")
}

func chat(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}

	st, err := newStore(ctx, config)
	if err != nil {
		logger.Fatal("opening the founder store", zap.Error(err))
	}
	defer st.Close()

	assistant, err := newAssistant(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the AI assistant", zap.Error(err))
	}

	founderID, err := resolveFounderID(ctx, cmd, st)
	if err != nil {
		logger.Fatal("choosing a founder", zap.Error(err))
	}

	var history []ai.Message
	input := promptui.Prompt{Label: "you"}

	for {
		query, err := input.Run()
		if err != nil {
			logger.Info("exiting", zap.Error(err))
			return
		}
		if strings.TrimSpace(query) == "" {
			logger.Info("exiting", zap.String("reason", "empty input"))
			return
		}

		// "/dump" writes the current roster to a temp file instead of asking.
		if strings.TrimSpace(query) == dumpCommand {
			all, err := st.List(ctx)
			if err != nil {
				logger.Fatal("listing founders", zap.Error(err))
			}
			filename, err := all.DumpToTmpFile()
			if err != nil {
				logger.Fatal("dumping roster to file", zap.Error(err))
			}
			logger.Info("dumping roster to file", zap.String("filename", filename))
			continue
		}

		resp, err := askOnce(ctx, st, assistant, founderID, query, history)
		if err != nil {
			logger.Fatal("asking the assistant", zap.Error(err))
		}

		fmt.Println(resp.Message)
		for _, f := range resp.Founders {
			if f.Distance != nil {
				fmt.Printf("  - %s (%s) %.1f km\n", f.Name, f.Skills, *f.Distance)
				continue
			}
			fmt.Printf("  - %s (%s)\n", f.Name, f.Skills)
		}

		history = append(history,
			ai.Message{Role: "user", Text: query},
			ai.Message{Role: "model", Text: resp.Message},
		)
	}
}

// askOnce loads a fresh roster snapshot and runs a single assistant call.
func askOnce(ctx context.Context, st store.FounderStore, assistant ai.Assistant, founderID, query string, history []ai.Message) (*ai.Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, askTimeout)
	defer cancel()

	current, err := st.GetByID(callCtx, founderID)
	if err != nil {
		return nil, fmt.Errorf("loading founder %s: %w", founderID, err)
	}

	all, err := st.List(callCtx)
	if err != nil {
		return nil, fmt.Errorf("listing founders: %w", err)
	}

	return assistant.Ask(callCtx, query, &ai.Context{
		CurrentFounder:   current,
		AllFounders:      all,
		PreviousMessages: history,
	}), nil
}

func resolveFounderID(ctx context.Context, cmd *cobra.Command, st store.FounderStore) (string, error) {
	if id := strings.TrimSpace(cmd.Flag("founder").Value.String()); id != "" {
		return id, nil
	}

	all, err := st.List(ctx)
	if err != nil {
		return "", fmt.Errorf("listing founders: %w", err)
	}
	if all.Len() == 0 {
		return "", fmt.Errorf("no founder profiles exist yet")
	}

	prompt := promptui.Select{
		Label: "Chat as which founder?",
		Items: all.Names(),
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return all.Items[idx].ID, nil
}
