package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/propline/sms-dashboard/internal/handler"
)

func setupRouter(h *handler.Handler, uploadDir string) http.Handler {
	r := chi.NewRouter()

	r.Post("/webhooks/sms", h.HandleWebhook)

	r.Get("/conversations/{phoneKey}", h.GetConversation)
	r.Get("/messages", h.ListMessages)

	r.Post("/broadcasts", h.CreateBroadcast)
	r.Post("/dispatcher/start", h.StartDispatcher)
	r.Post("/dispatcher/stop", h.StopDispatcher)

	r.Get("/health", h.HealthCheck)

	// Stored attachments for the dashboard front end.
	r.Get("/media/*", func(w http.ResponseWriter, req *http.Request) {
		http.StripPrefix("/media/", http.FileServer(http.Dir(uploadDir))).ServeHTTP(w, req)
	})

	return r
}
