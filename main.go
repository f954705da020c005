package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/taipm/go-llm-client/llm"
	"github.com/taipm/go-llm-client/tools"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	ctx := context.Background()
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	client, err := llm.NewClient(llm.Config{
		Provider: llm.OpenAI(),
		APIKey:   apiKey,
		Model:    "gpt-4o-mini",
		System:   "You are a concise assistant. Use the available tools when they help.",
	})
	if err != nil {
		log.Fatal(err)
	}

	client.
		WithTools(tools.Clock(), tools.Calculator(), tools.Weather(), tools.Wikipedia()).
		WithMaxToolRounds(8).
		WithInfoLogging()

	fmt.Println("Chat started. Type 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		answer, err := client.Ask(ctx, line)
		if err != nil {
			log.Printf("Error: %v", err)
			continue
		}
		fmt.Println(answer)
	}
}
