package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/Financial-Times/base-ft-rw-app-go/baseftrwapp"
	"github.com/Financial-Times/contentful-listener-api/config"
	"github.com/Financial-Times/contentful-listener-api/contentful"
	"github.com/Financial-Times/contentful-listener-api/healthcheck"
	"github.com/Financial-Times/contentful-listener-api/publishing"
	"github.com/Financial-Times/contentful-listener-api/webhook"
	"github.com/Financial-Times/go-fthealth/v1a"
	"github.com/Financial-Times/http-handlers-go/httphandlers"
	"github.com/Financial-Times/service-status-go/gtg"
	status "github.com/Financial-Times/service-status-go/httphandlers"
	"github.com/gorilla/mux"
	cli "github.com/jawher/mow.cli"
	"github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"
)

func main() {
	app := cli.App("contentful-listener-api", "Listens for Contentful webhooks and syncs the affected content into the Publishing API")

	port := app.Int(cli.IntOpt{
		Name:   "port",
		Value:  8080,
		Desc:   "Port to listen on",
		EnvVar: "APP_PORT",
	})

	publishingAPIURL := app.String(cli.StringOpt{
		Name:   "publishing-api-url",
		Value:  "http://localhost:3093",
		Desc:   "Publishing API endpoint URL",
		EnvVar: "PUBLISHING_API_URL",
	})

	contentfulEnvironment := app.String(cli.StringOpt{
		Name:   "contentful-environment",
		Value:  "master",
		Desc:   "Contentful environment to serve content from and accept webhooks for",
		EnvVar: "CONTENTFUL_ENVIRONMENT",
	})

	contentfulDeliveryURL := app.String(cli.StringOpt{
		Name:   "contentful-delivery-url",
		Value:  contentful.DeliveryAPIURL,
		Desc:   "Contentful delivery API URL, serves published content",
		EnvVar: "CONTENTFUL_DELIVERY_URL",
	})

	contentfulPreviewURL := app.String(cli.StringOpt{
		Name:   "contentful-preview-url",
		Value:  contentful.PreviewAPIURL,
		Desc:   "Contentful preview API URL, serves draft content",
		EnvVar: "CONTENTFUL_PREVIEW_URL",
	})

	contentItemsPath := app.String(cli.StringOpt{
		Name:   "content-items-config",
		Value:  "config/content_items.yaml",
		Desc:   "Path to the Contentful entry to content item mapping table",
		EnvVar: "CONTENT_ITEMS_CONFIG",
	})

	accessTokensPath := app.String(cli.StringOpt{
		Name:   "access-tokens-config",
		Value:  "config/access_tokens.yaml",
		Desc:   "Path to the per-space Contentful access token table",
		EnvVar: "ACCESS_TOKENS_CONFIG",
	})

	graphiteTCPAddress := app.String(cli.StringOpt{
		Name:   "graphiteTCPAddress",
		Value:  "",
		Desc:   "Graphite TCP address, e.g. graphite.ft.com:2003. Leave as default if you do NOT want to output to graphite (e.g. if running locally)",
		EnvVar: "GRAPHITE_ADDRESS",
	})

	graphitePrefix := app.String(cli.StringOpt{
		Name:   "graphitePrefix",
		Value:  "",
		Desc:   "Prefix to use. Should start with content, include the environment, and the host name. e.g. content.test.contentful-listener-api.1",
		EnvVar: "GRAPHITE_PREFIX",
	})

	logMetrics := app.Bool(cli.BoolOpt{
		Name:   "logMetrics",
		Value:  false,
		Desc:   "Whether to log metrics. Set to true if running locally and you want metrics output",
		EnvVar: "LOG_METRICS",
	})

	env := app.String(cli.StringOpt{
		Name:  "env",
		Value: "local",
		Desc:  "environment this app is running in",
	})

	app.Action = func() {
		contentConfigs, err := config.LoadContentConfigs(*contentItemsPath)
		if err != nil {
			log.Fatalf("Could not load content item config, error=[%s]\n", err)
		}

		accessTokens, err := config.LoadAccessTokens(*accessTokensPath)
		if err != nil {
			log.Fatalf("Could not load access token config, error=[%s]\n", err)
		}

		contentfulClients := contentful.NewClients(accessTokens, *contentfulEnvironment)
		contentfulClients.DeliveryAPIURL = *contentfulDeliveryURL
		contentfulClients.PreviewAPIURL = *contentfulPreviewURL

		apiClient := publishing.NewClient(*publishingAPIURL)
		affectedContent := publishing.NewAffectedContent(apiClient, contentConfigs)
		updater := publishing.NewUpdater(apiClient, contentfulClients)
		listener := webhook.NewHandler(*contentfulEnvironment, contentConfigs, affectedContent, updater)
		contentfulCheck := healthcheck.NewContentfulCheck(contentfulClients)

		baseftrwapp.OutputMetricsIfRequired(*graphiteTCPAddress, *graphitePrefix, *logMetrics)

		if *env != "local" {
			f, err := os.OpenFile("/var/log/apps/contentful-listener-api-go-app.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
			if err == nil {
				log.SetOutput(f)
				log.SetFormatter(&log.TextFormatter{DisableColors: true})
			} else {
				log.Fatalf("Failed to initialise log file, %v", err)
			}
			defer f.Close()
		}

		var m http.Handler
		m = router(listener, contentfulCheck)

		m = httphandlers.HTTPMetricsHandler(metrics.DefaultRegistry, m)

		http.Handle("/", m)

		log.Printf("listening on %d", *port)
		log.Println(http.ListenAndServe(fmt.Sprintf(":%d", *port), nil).Error())
		log.Println("exiting on contentful-listener-api")
	}

	log.SetLevel(log.InfoLevel)
	log.Infof("Application started with args %s", os.Args)
	app.Run(os.Args)
}

//Router sets up the Router - extracted for testability
func router(listener *webhook.Handler, contentfulCheck *healthcheck.ContentfulCheck) *mux.Router {
	healthHandler := v1a.Handler("contentful-listener-api ServiceModule", "Syncs Contentful content changes into the Publishing API", contentfulCheck.Check())

	m := mux.NewRouter()

	m.HandleFunc("/listener", listener.Listener).Methods("POST")

	m.HandleFunc("/__health", healthHandler)
	m.HandleFunc(status.PingPath, status.PingHandler)
	m.HandleFunc(status.PingPathDW, status.PingHandler)
	m.HandleFunc(status.BuildInfoPath, status.BuildInfoHandler)
	m.HandleFunc(status.BuildInfoPathDW, status.BuildInfoHandler)

	gtgChecker := []gtg.StatusChecker{contentfulCheck.GTG}
	m.HandleFunc(status.GTGPath, status.NewGoodToGoHandler(gtg.FailFastParallelCheck(gtgChecker)))

	return m
}
