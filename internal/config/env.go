package config

import "github.com/joho/godotenv"

// LoadEnv loads variables from a .env file in the working directory.
// Variables already set in the environment take precedence.
func LoadEnv() error {
	return godotenv.Load()
}
