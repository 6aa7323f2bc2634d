// Command cityinfo prints a travel profile for one city.
//
//	cityinfo -city Paris -country France
//	cityinfo "Kyoto, Japan"
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cityinfo/internal/archive"
	"cityinfo/internal/cityinfo"
	"cityinfo/internal/env"
	"cityinfo/internal/models"
	"cityinfo/internal/synth"
	"cityinfo/pkg/geo"
	"cityinfo/pkg/graceful"
	"cityinfo/pkg/logger"
)

func main() {
	city := flag.String("city", "", "city name")
	country := flag.String("country", "", "optional country name")
	asJSON := flag.Bool("json", false, `print {"city_information": ...} instead of the plain document`)
	last := flag.Bool("last", false, "print the latest archived profile instead of running the workflow (needs DATABASE_URL)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-json] [-last] (-city NAME [-country NAME] | \"City, Country\")\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	env.LoadEnv()
	cfg := env.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	req := cityinfo.Request{City: *city, Country: *country}
	if req.City == "" && flag.NArg() > 0 {
		req.City, req.Country = geo.ParseCityCountry(strings.Join(flag.Args(), " "))
	}
	if strings.TrimSpace(req.City) == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	var (
		doc string
		err error
	)
	if *last {
		doc, err = latest(ctx, cfg, req)
	} else {
		doc, err = run(ctx, cfg, req)
	}
	if err != nil {
		slog.Error("cityinfo failed", "city", req.City, "error", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cityinfo.Response{CityInformation: doc}); err != nil {
			slog.Error("failed to encode response", "error", err)
			os.Exit(1)
		}
		return
	}
	fmt.Println(doc)
}

func run(ctx context.Context, cfg env.Config, req cityinfo.Request) (string, error) {
	log := logger.WithComponent("cli")
	workflow := cityinfo.NewWorkflow(
		cityinfo.NewSources(cfg, log),
		synth.New(cityinfo.NewGenerator(ctx, cfg, log), log),
		cityinfo.WithLogger(log),
	)
	resp, err := workflow.Run(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.CityInformation, nil
}

func latest(ctx context.Context, cfg env.Config, req cityinfo.Request) (string, error) {
	if cfg.DBURL == "" {
		return "", errors.New("-last needs DATABASE_URL")
	}
	q, err := models.NewCityQuery(req.City, req.Country)
	if err != nil {
		return "", err
	}
	pool, err := archive.NewPool(ctx, cfg.DBURL)
	if err != nil {
		return "", err
	}
	defer pool.Close()

	rec, err := archive.NewRepository(pool).Latest(ctx, q)
	if err != nil {
		return "", err
	}
	slog.Info("loaded archived profile", "run_id", rec.RunID, "created_at", rec.CreatedAt)
	return rec.Document, nil
}
