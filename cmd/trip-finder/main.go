package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	lib "github.com/theoremus-urban-solutions/gtfsrt-trip-finder"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/config"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/internal"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/metrics"
)

func main() {
	mode := flag.String("mode", "serve", "serve|oneshot")
	configPath := flag.String("config", "", "config file (default config.yml or ./config/config.yml)")
	feedName := flag.String("feed", "", "feed name from config.feeds[]")
	tripUpdates := flag.String("tripUpdates", "", "GTFS-RT TripUpdates URL or file (overrides config)")
	destination := flag.String("destination", "", "destination stop name (oneshot)")
	lat := flag.Float64("lat", 0, "latitude of the rider (oneshot)")
	lon := flag.Float64("lon", 0, "longitude of the rider (oneshot)")
	budget := flag.Float64("budget", 0, "fare budget, enables cost estimates (oneshot)")
	flag.Parse()

	internal.InitLogging()

	var paths []string
	if *configPath != "" {
		paths = append(paths, *configPath)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("invalid planner timezone: %v", err)
	}

	gtfsCfg, rtCfg := cfg.SelectFeed(*feedName)
	if *tripUpdates != "" {
		rtCfg.TripUpdatesURL = *tripUpdates
	}

	collector := metrics.NewCollector()
	opts := []lib.PlannerOption{
		lib.WithLocation(loc),
		lib.WithFallbackLimit(cfg.Planner.FallbackLimit),
		lib.WithFare(lib.Fare{Amount: cfg.Fare.Amount, Currency: cfg.Fare.Currency}),
		lib.WithLookupCache(cfg.Planner.CacheSize, time.Duration(cfg.Planner.CacheTTLSeconds)*time.Second),
		lib.WithPlanObserver(collector),
	}

	var planner *lib.Planner
	schedule, err := gtfs.Load(context.Background(), gtfsCfg)
	if err != nil {
		log.Printf("failed to load static GTFS: %v", err)
		planner = lib.NewUnavailablePlanner(err, opts...)
	} else {
		log.Printf("loaded static GTFS from %s: %d stops, %d trips, %d stop_times",
			schedule.Source(), schedule.NumStops(), schedule.NumTrips(), schedule.NumStopTimes())
		collector.SetSchedule(schedule.NumStops(), schedule.NumTrips(), schedule.NumStopTimes())
		client := gtfsrt.NewClient(rtCfg, gtfsrt.WithObserver(collector))
		planner = lib.NewPlanner(schedule, client, opts...)
	}

	switch *mode {
	case "serve":
		server := lib.NewServer(cfg, planner, collector)
		server.Start()
		server.HandleGracefulShutdown()
	case "oneshot":
		plan, err := planner.Plan(context.Background(), lib.Query{
			Destination: *destination,
			Lat:         *lat,
			Lon:         *lon,
			Budget:      *budget,
		})
		if err != nil {
			log.Fatalf("plan failed: %v", err)
		}
		buf, err := lib.EncodePlan(uuid.NewString(), plan)
		if err != nil {
			log.Fatalf("failed to encode plan: %v", err)
		}
		fmt.Println(string(buf))
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}
