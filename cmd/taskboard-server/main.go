package main

import (
	"flag"
	"net/http"
	"taskboard-backend/lib/configutil"
	"taskboard-backend/lib/serviceutil"
)

type Config struct {
	Taskstore TaskstoreConfig `json:"taskstore"`
	Collector CollectorConfig `json:"collector"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	mux := http.NewServeMux()

	store, err := InitTaskstore(mux, cfg.Taskstore)
	if err != nil {
		serviceutil.Fatal("init taskstore", err)
	}
	err = InitCollector(ctx, mux, cfg.Collector, store)
	if err != nil {
		serviceutil.Fatal("init collector", err)
	}

	go serviceutil.StartHttpServer(8000, mux)
	<-ctx.Done()
}
