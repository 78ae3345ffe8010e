package main

import (
	"log"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/trendscope/aggregator-core/internal/activities"
	"github.com/trendscope/aggregator-core/internal/cachestore"
)

const (
	defaultTaskQueue    = "aggregator-go"
	defaultTemporalAddr = "127.0.0.1:7233"
	defaultNamespace    = "default"
)

func main() {
	temporalAddr := getEnv("TEMPORAL_ADDRESS", defaultTemporalAddr)
	namespace := getEnv("TEMPORAL_NAMESPACE", defaultNamespace)
	taskQueue := getEnv("AGGREGATOR_TASK_QUEUE", defaultTaskQueue)

	log.Printf("Starting aggregator worker: address=%s namespace=%s queue=%s",
		temporalAddr, namespace, taskQueue)

	c, err := client.Dial(client.Options{
		HostPort:  temporalAddr,
		Namespace: namespace,
	})
	if err != nil {
		log.Fatalf("Failed to create Temporal client: %v", err)
	}
	defer c.Close()

	var cache cachestore.Store
	if pg, err := cachestore.NewPostgresStore(); err != nil {
		log.Printf("Cache store unavailable (%v); using in-memory cache", err)
		cache = cachestore.NewMemoryStore()
	} else {
		defer pg.Close()
		cache = pg
	}

	secrets := activities.NewCachingSecretProvider(activities.EnvSecretProvider{})
	backends := activities.NewHTTPBackendClient()
	search := activities.NewHTTPSearchClient(secrets)

	w := worker.New(c, taskQueue, worker.Options{})

	acts := activities.NewActivities(backends, cache, search)
	w.RegisterActivity(acts.AggregateSources)
	w.RegisterActivity(acts.FetchWebContext)

	log.Printf("Registered aggregator activities: AggregateSources, FetchWebContext")

	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
