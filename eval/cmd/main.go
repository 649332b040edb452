package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"medrag/eval/internal"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
}

func main() {
	baseURL := os.Getenv("EVAL_API_BASE")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8000"
	}

	runner := internal.NewRunner(baseURL, os.Getenv("API_KEY"))
	records, summary := runner.Run(context.Background(), internal.DefaultTests)

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))

	fmt.Println("\nSUMMARY")
	out, err = json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
