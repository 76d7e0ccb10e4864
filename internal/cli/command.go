package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/translingo/internal"
)

// App identifies one of the two front ends
type App int

const (
	// Desktop is the translator and speech window
	Desktop App = iota
	// Web is the translation form server
	Web
)

// CreateRootCommand creates and configures the root cobra command of app
func CreateRootCommand(app App, flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	switch app {
	case Web:
		rootCmd.Use = "translingo-web"
		rootCmd.Short = "Web form for machine translation"
		rootCmd.Long = `translingo-web serves a web form that translates text between
Indian subcontinent languages with a sequence-to-sequence translation model.

The model is loaded once at startup. Settings come from the config file,
a .env file and TRANSLINGO_* environment variables.`
	default:
		rootCmd.Use = "translingo"
		rootCmd.Short = "Desktop translator with speech output"
		rootCmd.Long = `translingo opens a window to translate text between 50+ languages,
keeps a history of translations in translations.csv and reads every
translation aloud.

Settings come from the config file, a .env file and TRANSLINGO_*
environment variables.`
	}

	setupFlags(rootCmd, flags)
	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.translingo.yaml)")
}

// InitConfig initializes viper configuration. A .env file in the working
// directory is loaded first; variables already set in the environment
// win over it.
func InitConfig(cfgFile string) {
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".translingo" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".translingo")
	}

	// Environment variables, e.g. TRANSLINGO_TTS_PROVIDER for tts.provider
	viper.SetEnvPrefix("TRANSLINGO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("openai.key")
}

// GetMTToken retrieves the credential of the configured MT provider
func GetMTToken(provider string) string {
	env := "HF_TOKEN"
	if provider == "gemini" {
		env = "GEMINI_API_KEY"
	}
	if key := os.Getenv(env); key != "" {
		return key
	}
	return viper.GetString("mt.token")
}
