package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"medrag/config"
	"medrag/loader/service"
	"medrag/model"
	"medrag/store"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
}

func main() {
	watch := flag.Bool("watch", false, "keep watching the source directory instead of a one-shot ingest")
	flag.Parse()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	index, err := store.NewPostgresStore(ctx, cfg.ConnString(), cfg.Collection, cfg.EmbedDim)
	if err != nil {
		log.Fatal("error to connect to vector store: ", err)
	}
	defer index.Close()

	if err := index.Init(ctx); err != nil {
		log.Fatal("error to init vector store: ", err)
	}

	embedder := model.NewOllamaEmbedder(cfg.OllamaBaseURL, cfg.EmbeddingModel)

	svc, err := service.New(index, embedder, cfg)
	if err != nil {
		log.Fatal("error to create loader service: ", err)
	}

	if !*watch {
		if err := svc.IngestDirectory(ctx); err != nil {
			log.Fatal(err)
		}
		return
	}

	done := make(chan struct{})
	go func() {
		svc.Watch(ctx)
		close(done)
	}()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	<-sigch
	log.Println("Received shutdown signal, shutting down loader...")
	cancel()
	<-done
}
