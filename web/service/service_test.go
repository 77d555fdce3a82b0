package service

import (
	"os"

	"taskman/database"
	"taskman/logger"

	"github.com/op/go-logging"
)

const testDBPath = "test.db"

func setup() {
	os.Remove(testDBPath)
	logger.InitLogger(logging.DEBUG)
	database.InitDB(testDBPath)
}

func teardown() {
	db, _ := database.GetDB().DB()
	db.Close()
	os.Remove(testDBPath)
}
