//go:build !js && !wasm

// Command storefront-serve hosts the storefront during development: the
// static page, the compiled wasm bundle and the action API the bundle talks
// to. With -api it proxies to a real backend instead of the built-in one.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"html/template"
	"log"
	"mime"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/macedon-ranges/storefront/internal/devapi"
	"github.com/macedon-ranges/storefront/logging"
)

type pageData struct {
	AJAXURL         string
	Nonce           string
	CartURL         string
	LostPasswordURL string
	Products        []devapi.Product
}

func main() {
	listen := flag.String("listen", "127.0.0.1:4173", "address to serve the storefront")
	staticDir := flag.String("dir", "ui", "directory containing the built UI files")
	apiTarget := flag.String("api", "", "base URL of a real backend; empty runs the built-in API")
	flag.Parse()

	logger := logging.New(logging.DEBUG, os.Stdout)
	httpLogger := logging.NewHTTPLogger(logger, 0)

	root, err := filepath.Abs(*staticDir)
	if err != nil {
		log.Fatalf("failed to resolve static directory: %v", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		log.Fatalf("static directory %s is invalid: %v", root, err)
	}

	mime.AddExtensionType(".wasm", "application/wasm")

	store := devapi.NewStore()

	r := chi.NewRouter()
	r.Use(httpLogger.Middleware)

	if strings.TrimSpace(*apiTarget) != "" {
		apiURL, err := url.Parse(*apiTarget)
		if err != nil || apiURL.Scheme == "" {
			log.Fatalf("invalid API target %q: %v", *apiTarget, err)
		}
		r.Mount("/api", apiProxyHandler(apiURL))
		logger.Info("serve", "proxying API", map[string]any{"target": apiURL.String()})
	} else {
		r.Mount("/api", devapi.New(store, logger).Router())
		logger.Info("serve", "built-in API mounted", nil)
	}

	r.Get("/logs", logsStreamHandler(logger))
	r.Get("/*", indexAwareStaticHandler(root, store))

	logger.Info("serve", "storefront listening", map[string]any{
		"addr":   *listen,
		"static": root,
	})
	if err := http.ListenAndServe(*listen, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func apiProxyHandler(target *url.URL) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(target)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Host = target.Host
		proxy.ServeHTTP(w, r)
	})
}

// indexAwareStaticHandler serves the page shell as a template so the security
// token and endpoint configuration reach the bundle, and everything else as
// plain files.
func indexAwareStaticHandler(root string, store *devapi.Store) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(root))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "" || r.URL.Path == "/index.html" {
			tmpl, err := template.ParseFiles(filepath.Join(root, "index.html"))
			if err != nil {
				http.Error(w, "page shell missing", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_ = tmpl.Execute(w, pageData{
				AJAXURL:         "/api/ajax",
				Nonce:           store.Nonce(),
				CartURL:         "/cart",
				LostPasswordURL: "/lost-password",
				Products:        store.Catalog(),
			})
			return
		}
		if strings.HasSuffix(r.URL.Path, ".wasm") {
			w.Header().Set("Content-Type", "application/wasm")
		}
		fileServer.ServeHTTP(w, r)
	}
}

// logsStreamHandler exposes the structured log as a server-sent event stream
// for the dev console.
func logsStreamHandler(logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		ch := make(chan logging.Entry, 64)
		unsubscribe := logger.Subscribe(ch)
		defer unsubscribe()

		fmt.Fprint(w, "event: ready\ndata: {}\n\n")
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case entry := <-ch:
				data, err := json.Marshal(entry)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: log\ndata: %s\n\n", data)
				flusher.Flush()
			}
		}
	}
}
