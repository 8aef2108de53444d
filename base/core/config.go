package core

import (
	"app/base/utils"

	"github.com/joho/godotenv"
)

func ConfigureApp() {
	// .env file is optional, env variables win over it
	_ = godotenv.Load()
	utils.ConfigureLogging()
}

func SetupTestEnvironment() {
	utils.SetenvOrFail("LOG_LEVEL", "debug")
	ConfigureApp()
}
