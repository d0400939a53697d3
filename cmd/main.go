package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Sundramrai3691/Farm-Guru/internal/logger"
	"github.com/Sundramrai3691/Farm-Guru/internal/types"
	"github.com/Sundramrai3691/Farm-Guru/pkg/answer"
	"github.com/Sundramrai3691/Farm-Guru/pkg/config"
	"github.com/Sundramrai3691/Farm-Guru/pkg/llm"
	"github.com/Sundramrai3691/Farm-Guru/pkg/processor"
	"github.com/Sundramrai3691/Farm-Guru/pkg/retriever"
	"github.com/Sundramrai3691/Farm-Guru/pkg/scraper"
	"github.com/Sundramrai3691/Farm-Guru/pkg/store"
	"github.com/Sundramrai3691/Farm-Guru/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	serve := flag.Bool("serve", false, "start the HTTP server")
	port := flag.String("port", "", "HTTP server port (overrides config)")
	ingestURL := flag.String("ingest", "", "harvest advisory pages from this URL into the document store")
	demo := flag.Bool("demo", false, "force deterministic answers, never call remote inference")
	dbURL := flag.String("db-url", "", "PostgreSQL connection string (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *dbURL != "" {
		cfg.Database.URL = *dbURL
	}
	if *demo {
		cfg.DemoMode = true
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "invalid config: %v\n", e)
		}
		os.Exit(1)
	}

	log := logger.New(cfg.Server.LogLevel, cfg.Server.LogFormat)
	defer log.Sync()

	ctx := context.Background()

	var embedder types.EmbeddingProvider
	if cfg.Embedding.Enabled {
		emb, err := llm.NewEmbedder(llm.EmbedderConfig{
			Model:   cfg.Embedding.Model,
			BaseURL: cfg.Embedding.BaseURL,
		})
		if err != nil {
			log.Warn("embedding provider unavailable", zap.Error(err))
		} else {
			embedder = emb
		}
	}

	var st *store.Store
	if cfg.Database.URL != "" {
		st, err = store.NewWithConfig(ctx, store.Config{
			ConnString: cfg.Database.URL,
			TableName:  cfg.Database.TableName,
			VectorDim:  cfg.Database.VectorDim,
		})
		if err != nil {
			log.Warn("database unavailable, continuing without it", zap.Error(err))
			st = nil
		} else {
			defer st.Close()
		}
	}

	if *ingestURL != "" {
		if err := runIngest(ctx, cfg, st, embedder, *ingestURL, log); err != nil {
			log.Error("ingest failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	hf := llm.NewHFClient(llm.HFConfig{
		APIKey:  cfg.HF.APIKey,
		Model:   cfg.HF.Model,
		BaseURL: cfg.HF.BaseURL,
	}, log)

	var corpusStore types.CorpusStore
	if st != nil {
		corpusStore = st
	}
	ret := retriever.New(retriever.Config{
		TopK:           cfg.Retriever.TopK,
		MatchThreshold: cfg.Retriever.MatchThreshold,
	}, corpusStore, embedder, log)

	syn := llm.NewSynthesizer(llm.SynthesizerConfig{
		DemoMode:  cfg.DemoMode,
		MaxTokens: cfg.HF.MaxTokens,
	}, hf, log)

	if *serve {
		portNum, err := strconv.Atoi(cfg.Server.Port)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid port %q\n", cfg.Server.Port)
			os.Exit(1)
		}
		srv := server.New(server.Config{
			Port:     portNum,
			DemoMode: cfg.DemoMode,
		}, ret, syn, st, log)
		if err := srv.Run(); err != nil {
			log.Fatal("server exited", zap.Error(err))
		}
		return
	}

	runChat(ctx, ret, syn)
}

// runIngest harvests pages, processes them into documents, and writes them
// to the store.
func runIngest(ctx context.Context, cfg *config.Config, st *store.Store, embedder types.EmbeddingProvider, startURL string, log *zap.Logger) error {
	if st == nil {
		return fmt.Errorf("ingest requires a database, set DATABASE_URL or -db-url")
	}

	color.Cyan("Harvesting advisory pages from %s", startURL)

	sc := scraper.New(scraper.Config{
		MaxPages:          cfg.Scraper.MaxPages,
		MaxDepth:          cfg.Scraper.MaxDepth,
		RateLimit:         rate.Limit(cfg.Scraper.RateLimit),
		IgnorePatterns:    cfg.Scraper.IgnorePatterns,
		AllowedExtensions: cfg.Scraper.AllowedExtensions,
	}, log)

	raw, err := sc.Harvest(ctx, startURL)
	if err != nil {
		return fmt.Errorf("harvest failed: %w", err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("no documents harvested from %s", startURL)
	}

	proc := processor.New(processor.Config{
		SnippetLength:    cfg.Processor.SnippetLength,
		MinContentLength: cfg.Processor.MinContentLength,
		MaxContentLength: cfg.Processor.MaxContentLength,
	})
	docs := proc.Process(raw)
	color.Green("Processed %d pages into %d documents", len(raw), len(docs))

	bar := progressbar.NewOptions(len(docs),
		progressbar.OptionSetDescription("Storing documents"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer: "=", SaucerHead: ">", SaucerPadding: " ",
			BarStart: "[", BarEnd: "]",
		}),
	)
	// Upsert in small batches so progress reflects embedding work too.
	const batchSize = 5
	for i := 0; i < len(docs); i += batchSize {
		end := i + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := st.UpsertDocuments(ctx, docs[i:end], embedder); err != nil {
			return fmt.Errorf("failed to store documents: %w", err)
		}
		bar.Add(end - i)
	}
	fmt.Println()
	color.Green("Ingest complete: %d documents stored", len(docs))
	return nil
}

// runChat is the interactive terminal loop for trying queries locally.
func runChat(ctx context.Context, ret *retriever.Retriever, syn *llm.Synthesizer) {
	color.Cyan("Farm-Guru agricultural assistant")
	color.Cyan("Ask a farming question, or type 'exit' to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	prompt := color.New(color.FgGreen, color.Bold)
	for {
		prompt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			break
		}

		queryCtx, cancel := context.WithTimeout(ctx, 90*time.Second)
		docs := ret.Retrieve(queryCtx, query, 3)
		resp := answer.Normalize(syn.Synthesize(queryCtx, query, docs, ""))
		cancel()

		fmt.Println()
		color.White(resp.Answer)
		fmt.Println()
		if len(resp.Actions) > 0 {
			color.Yellow("Suggested actions:")
			for _, action := range resp.Actions {
				fmt.Printf("  - %s\n", action)
			}
		}
		if len(resp.Sources) > 0 {
			color.Blue("Sources:")
			for _, src := range resp.Sources {
				if src.URL != "" {
					fmt.Printf("  - %s (%s)\n", src.Title, src.URL)
				} else {
					fmt.Printf("  - %s\n", src.Title)
				}
			}
		}
		fmt.Printf("\nconfidence: %.2f\n\n", resp.Confidence)
	}
}
