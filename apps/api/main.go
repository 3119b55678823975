package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/vikasdeshmukh63/school-application-dashboard/apps/api/echo"
	"github.com/vikasdeshmukh63/school-application-dashboard/core"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
	emailsvc "github.com/vikasdeshmukh63/school-application-dashboard/services/email"
	identitysvc "github.com/vikasdeshmukh63/school-application-dashboard/services/identity"
	logsvc "github.com/vikasdeshmukh63/school-application-dashboard/services/logger"
	"github.com/vikasdeshmukh63/school-application-dashboard/storage/database"
	sqlxrepos "github.com/vikasdeshmukh63/school-application-dashboard/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, core.Conf)
	logger.Enable(!core.Conf.Debug)

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(std, err)
	defer db.Close()

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	local := identitysvc.NewLocalService(db)
	var idp core.IdentityService = local
	if core.Conf.ClerkSecretKey != "" {
		idp = identitysvc.NewClerkService(core.Conf)
	}

	schoolSvc := school.NewService(sqlxrepos.NewRepository(db), idp, mailSvc, logger)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:   core.Conf.Server.Address(),
			SchoolSvc: schoolSvc,
			Auth:      local,
			Logger:    logger,
		},
	)
	go app.Start()

	// block until a signal arrives or a request hits an unrecoverable
	// error, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		std.Printf("%v: start shutdown", sig)
	case <-app.Shutdown():
		std.Print("integrity error: start shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		std.Printf("stopping server: %v", err)
	}
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
