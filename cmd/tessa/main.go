package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/config"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/observability"
)

type cli struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tessa:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.New()}

	root := &cobra.Command{
		Use:           "tessa",
		Short:         "T.E.S.S.A. chat service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (yaml, json or toml)")
	flags.String("provider", "", "completion provider: groq|openai|gemini|vertex|mock")
	flags.String("model", "", "model name")
	flags.String("storage-backend", "", "conversation storage: json|sqlite|firestore|memory")
	flags.String("store-path", "", "path of the JSON conversation file")
	flags.String("log-level", "", "debug|info|warn|error")

	for key, flag := range map[string]string{
		"provider":        "provider",
		"model":           "model",
		"storage_backend": "storage-backend",
		"store_path":      "store-path",
		"log_level":       "log-level",
	} {
		_ = c.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newServeCmd(c),
		newChatCmd(c),
		newExportCmd(c),
		newSchemaCmd(),
	)
	return root
}

// load reads the config file and validates the result. text selects the
// human-readable log format.
func (c *cli) load(text bool) error {
	if err := config.ReadFile(c.v, c.configFile); err != nil {
		return err
	}
	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}
	c.cfg = cfg
	observability.Configure(os.Stderr, cfg.LogLevel, text)
	return nil
}
