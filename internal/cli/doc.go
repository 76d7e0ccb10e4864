// Package cli provides command-line interface setup and configuration
// for the translingo binaries. It handles command creation and
// configuration management using cobra, viper and godotenv.
package cli
