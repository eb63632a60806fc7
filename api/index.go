package handler

import (
	"housing/config"
	"housing/di"
	_ "housing/docs"
	"housing/shared/logger"
	"net/http"
	"sync"
)

var (
	server http.Handler
	once   sync.Once
)

// Handler is the serverless entry point. Warm invocations reuse the graph built by the first one.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()
		logger.Configure(cfg)

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
