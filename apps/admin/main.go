package main

import (
	"log"
	"os"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
	emailsvc "github.com/vikasdeshmukh63/school-application-dashboard/services/email"
	identitysvc "github.com/vikasdeshmukh63/school-application-dashboard/services/identity"
	logsvc "github.com/vikasdeshmukh63/school-application-dashboard/services/logger"
	"github.com/vikasdeshmukh63/school-application-dashboard/storage/database"
	sqlxrepos "github.com/vikasdeshmukh63/school-application-dashboard/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	errAndDie(database.CreateIfNotExist(core.Conf))
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	idSvc := identitysvc.NewLocalService(db)
	schoolSvc := school.NewService(
		sqlxrepos.NewRepository(db),
		idSvc,
		emailsvc.NewConsoleService(),
		logsvc.NewStdLogger(logger),
	)

	// start CLI
	cli := commandLine{
		db:        db,
		idSvc:     idSvc,
		schoolSvc: schoolSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
