package main

import (
	"log"
	"os"

	"github.com/Luis-AP/gespro/core"
	"github.com/Luis-AP/gespro/storage/database"
	mysqlrepos "github.com/Luis-AP/gespro/storage/database/mysql"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(database.Ping(db))

	// start CLI
	cli := commandLine{
		db:      db,
		usrRepo: mysqlrepos.NewUserRepository(db),
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
