package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"question-batcher/internal/archive"
	"question-batcher/internal/batch"
	"question-batcher/internal/config"
	"question-batcher/internal/embedding"
	"question-batcher/internal/helper"
	"question-batcher/internal/llmservice"
	"question-batcher/internal/loader"
	"question-batcher/internal/segment"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	filePath := flag.String("file", "", "Path to the document file")
	url := flag.String("url", "", "URL of a plain text document")
	questionsPath := flag.String("questions", "", "Path to a file with one question per line")
	mode := flag.String("mode", "carryover", "Scheduling mode: carryover or adaptive")
	chunking := flag.String("chunking", "sliding", "Chunking for carryover mode: sliding or semantic")
	semanticBatching := flag.Bool("semantic-batching", false, "Group questions with their most similar chunk before scheduling")
	batchSize := flag.Int("batch-size", 0, "Questions per call in carryover mode, overrides config")
	save := flag.Bool("archive", false, "Persist the run to Postgres")
	dryRun := flag.Bool("dry-run", false, "Load and chunk only, do not call the model")
	flag.Parse()

	if *filePath == "" && *url == "" {
		log.Fatal().Msg("Please provide a document using the -file or -url flag")
	}
	if *questionsPath == "" && !*dryRun {
		log.Fatal().Msg("Please provide a question list using the -questions flag")
	}

	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if *batchSize > 0 {
		cfg.Run.BatchSize = *batchSize
	}
	log.Debug().Interface("run", cfg.Run).Str("model", cfg.LLM.Model).Msg("Loaded config")

	ctx := context.Background()

	content := loadContent(ctx, *filePath, *url)
	questions := loadQuestions(*questionsPath)
	log.Info().Int("chars", len(content)).Int("questions", len(questions)).Msg("Loaded input")

	var chunks []string
	if *mode == "carryover" {
		chunks = buildChunks(ctx, cfg, content, *chunking)
		log.Info().Int("chunks", len(chunks)).Str("chunking", *chunking).Msg("Segmented content")
	}
	if *dryRun {
		helper.PrettyPrint(chunks)
		return
	}

	client, err := llmservice.NewClient(&cfg.LLM, cfg.SystemPrompt)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing LLM client")
	}
	exec := batch.NewExecutor(client, cfg.Run.MaxAttempts, time.Duration(cfg.Run.TransientDelaySeconds)*time.Second)

	var ledger *batch.Ledger
	switch *mode {
	case "adaptive":
		splitter := batch.NewAdaptive(exec, client, cfg.Run.MinFragmentChars)
		ledger, err = splitter.Run(ctx, content, questions)
	case "carryover":
		if *semanticBatching {
			ledger, err = runGrouped(ctx, cfg, exec, chunks, questions)
		} else {
			var seq *batch.Carryover
			seq, err = batch.NewCarryover(exec, cfg.Run.BatchSize)
			if err == nil {
				ledger, err = seq.Run(ctx, chunks, questions)
			}
		}
	default:
		log.Fatal().Str("mode", *mode).Msg("Unknown scheduling mode")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Run failed")
	}

	inputTokens, outputTokens := ledger.Totals()
	log.Info().
		Int("answered", ledger.Len()).
		Int("unanswered", len(questions)-ledger.Len()).
		Int("input_tokens", inputTokens).
		Int("output_tokens", outputTokens).
		Msg("Run complete")
	helper.PrettyPrint(ledger.Answers())

	if *save {
		source := *filePath
		if source == "" {
			source = *url
		}
		saveRun(ctx, cfg, *mode, source, ledger)
	}
}

func loadContent(ctx context.Context, filePath, url string) string {
	if filePath != "" {
		content, err := loader.FromFile(filePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Error parsing document")
		}
		return content
	}
	content, err := loader.FromURL(ctx, url)
	if err != nil {
		log.Fatal().Err(err).Msg("Error fetching document")
	}
	return content
}

func loadQuestions(path string) []string {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening question list")
	}
	defer f.Close()

	var questions []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			questions = append(questions, line)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatal().Err(err).Msg("Error reading question list")
	}
	return questions
}

func buildChunks(ctx context.Context, cfg *config.Config, content, chunking string) []string {
	switch chunking {
	case "sliding":
		chunks, err := segment.SlidingWindow(content, cfg.Segment.ChunkSize, cfg.Segment.ChunkOverlap)
		if err != nil {
			log.Fatal().Err(err).Msg("Error chunking content")
		}
		return chunks
	case "semantic":
		embedder := newEmbedder(cfg)
		chunks, err := segment.Semantic(ctx, embedder, content, segment.SemanticOptions{
			MinSentences:    cfg.Segment.MinSentences,
			MaxSentences:    cfg.Segment.MaxSentences,
			ThresholdFactor: cfg.Segment.ThresholdFactor,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Error chunking content")
		}
		return chunks
	default:
		log.Fatal().Str("chunking", chunking).Msg("Unknown chunking strategy")
		return nil
	}
}

// runGrouped batches each question with its most similar chunk, then runs
// the sequencer once per chunk and merges the ledgers.
func runGrouped(ctx context.Context, cfg *config.Config, exec *batch.Executor, chunks, questions []string) (*batch.Ledger, error) {
	embedder := newEmbedder(cfg)
	groups, err := segment.GroupByChunk(ctx, embedder, chunks, questions)
	if err != nil {
		return nil, err
	}
	seq, err := batch.NewCarryover(exec, cfg.Run.BatchSize)
	if err != nil {
		return nil, err
	}
	ledger := batch.NewLedger()
	for i, chunk := range chunks {
		if len(groups[i]) == 0 {
			continue
		}
		part, err := seq.Run(ctx, []string{chunk}, groups[i])
		if err != nil {
			return nil, err
		}
		ledger.Merge(part)
	}
	return ledger, nil
}

func newEmbedder(cfg *config.Config) embeddings.Embedder {
	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	return embedder
}

func saveRun(ctx context.Context, cfg *config.Config, mode, source string, ledger *batch.Ledger) {
	runID, err := helper.GenerateUUID()
	if err != nil {
		log.Fatal().Err(err).Msg("Error generating run ID")
	}

	sqldb, err := archive.ConnectDB(cfg.Archive.DSN, cfg.Archive.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	db := archive.NewDB(sqldb, cfg.Archive.Debug)
	defer db.Close()

	if err := archive.InitDB(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}

	inputTokens, outputTokens := ledger.Totals()
	run := &archive.Run{
		ID:           runID,
		Mode:         mode,
		Source:       source,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}
	if err := archive.StoreRun(ctx, db, run, ledger.Answers()); err != nil {
		log.Fatal().Err(err).Msg("Error storing run")
	}
	log.Info().Str("run_id", runID).Msg("Run archived")
}
