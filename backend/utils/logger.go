package utils

import (
	"log"
	"os"
)

// InitLogger returns the application logger.
func InitLogger() *log.Logger {
	return log.New(os.Stdout, "[SkillPath] ", log.LstdFlags|log.LUTC)
}
