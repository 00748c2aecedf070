package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "net/http/pprof"

	"github.com/ngaut/log"

	"github.com/ozturkbey/mongo/db/config"
	"github.com/ozturkbey/mongo/db/node"
)

var (
	configPath = flag.String("config", "", "config file path")
	dbPath     = flag.String("db-path", "", "directory to store data in")
)

func main() {
	flag.Parse()

	conf := loadConfig()
	log.SetLevelByString(conf.LogLevel)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)

	n, err := node.New(conf)
	if err != nil {
		log.Fatal(err)
	}
	n.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	sig := <-sigCh
	log.Infof("Got signal [%s] to exit.", sig)

	n.Stop()
	log.Info("Node stopped.")
}

func loadConfig() *config.Config {
	var conf *config.Config
	if *configPath != "" {
		var err error
		conf, err = config.FromFile(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		conf = config.NewDefaultConfig()
	}
	if *dbPath != "" {
		conf.DBPath = *dbPath
	}
	if err := conf.Validate(); err != nil {
		log.Fatal(err)
	}
	return conf
}
