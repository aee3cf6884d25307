package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/wordcard/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wordcard",
		Short: "Printable vocabulary card generator",
		Long: `wordcard turns the words a student got wrong into printable
A4 flashcards. Known words come from the word table, typos are corrected
and unknown words are generated by a language model and saved.

Examples:
  wordcard                                   # Start the web interface on 127.0.0.1:8501
  wordcard --addr :9000                      # Listen on another address
  wordcard --batch words.txt --class YS1800 --name 张三 --list "List 10"
  wordcard --list-models                     # Show models of the configured endpoint
  wordcard --archive                         # Move the print history into archive/`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.wordcard.yaml)")

	// Local flags
	cmd.Flags().StringVar(&flags.Addr, "addr", flags.Addr, "Listen address of the web interface")
	cmd.Flags().StringVar(&flags.StorePath, "store", flags.StorePath, "Word table (.xlsx, .csv, .db)")
	cmd.Flags().StringVar(&flags.HistoryPath, "history", flags.HistoryPath, "Print history log (.csv, .xlsx, .db)")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List models available on the configured endpoint")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Archive the print history log")
	cmd.Flags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&flags.LogFile, "log-file", "", "Write JSON logs to this file")

	// Batch flags
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Render cards for the words in a file instead of serving")
	cmd.Flags().StringVar(&flags.Class, "class", "", "Class of the student (batch mode)")
	cmd.Flags().StringVar(&flags.Name, "name", "", "Name of the student (batch mode)")
	cmd.Flags().StringVar(&flags.ListNum, "list", "", "List number (batch mode)")
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", flags.OutputDir, "Output directory for the card deck (batch mode)")
	cmd.Flags().BoolVar(&flags.Anki, "anki", false, "Also write an Anki import file (batch mode)")

	// Generator flags
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Word generator: openai (DeepSeek or any compatible API) or gemini")
	cmd.Flags().StringVar(&flags.Model, "model", flags.Model, "Model used to generate words")
	cmd.Flags().StringVar(&flags.BaseURL, "base-url", flags.BaseURL, "Base URL of the OpenAI-compatible API")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	viper.BindPFlag("store.path", cmd.Flags().Lookup("store"))
	viper.BindPFlag("history.path", cmd.Flags().Lookup("history"))
	viper.BindPFlag("log.debug", cmd.Flags().Lookup("debug"))
	viper.BindPFlag("log.file", cmd.Flags().Lookup("log-file"))
	viper.BindPFlag("generator.provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("generator.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("generator.base_url", cmd.Flags().Lookup("base-url"))
}

// InitConfig initializes viper configuration. Variables from a .env file in
// the working directory are loaded first; they do not override the
// environment.
func InitConfig(cfgFile string) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".wordcard" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".wordcard")
	}

	// Environment variables, e.g. WORDCARD_STORE_PATH for store.path
	viper.SetEnvPrefix("WORDCARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetAPIKey retrieves the API key of the generator provider from the
// environment or the config file
func GetAPIKey(provider string) string {
	envKeys := []string{"DEEPSEEK_API_KEY", "OPENAI_API_KEY"}
	if provider == "gemini" {
		envKeys = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	}

	// First check environment variables
	for _, name := range envKeys {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}

	// Then check config file
	return viper.GetString("generator.api_key")
}
