package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSystemPrompt drives the positional JSON answer contract, including
// the "N/A" marker for unanswerable questions.
const DefaultSystemPrompt = `Answer each of the inputted questions using the information provided to you in the prompt. Respond with a JSON array of strings, one answer per question.
There should be **exactly** one answer for each inputted question, no more, no less.
* **Accuracy and Precision:** Provide direct, factual answers. **Do not** create or merge any of the questions.
* **Source Constraint:** Use *only* information explicitly present in the content. Do not infer, speculate, or bring in outside knowledge.
* **Completeness:** Ensure each answer fully addresses the question, *to the extent possible with the given content*.
* **Missing Information:** If the information required to answer a question is not discussed or cannot be directly derived from the content, respond with "N/A".`

type Config struct {
	LLM          LLMConfig     `yaml:"llm"`
	EmbedLLM     LLMConfig     `yaml:"embed_llm"`
	Run          RunConfig     `yaml:"run"`
	Segment      SegmentConfig `yaml:"segment"`
	Archive      ArchiveConfig `yaml:"archive"`
	SystemPrompt string        `yaml:"system_prompt"`
}

type LLMConfig struct {
	Provider         string `yaml:"provider"`
	BaseURL          string `yaml:"base_url"`
	Key              string `yaml:"key"`
	Model            string `yaml:"model"`
	InputTokenLimit  int    `yaml:"input_token_limit"`
	OutputTokenLimit int    `yaml:"output_token_limit"`
	MaxOutputTokens  int    `yaml:"max_output_tokens"`
}

type RunConfig struct {
	BatchSize             int `yaml:"batch_size"`
	MaxAttempts           int `yaml:"max_attempts"`
	TransientDelaySeconds int `yaml:"transient_delay_seconds"`
	MinFragmentChars      int `yaml:"min_fragment_chars"`
}

type SegmentConfig struct {
	ChunkSize       int     `yaml:"chunk_size"`
	ChunkOverlap    int     `yaml:"chunk_overlap"`
	MinSentences    int     `yaml:"min_sentences"`
	MaxSentences    int     `yaml:"max_sentences"`
	ThresholdFactor float64 `yaml:"threshold_factor"`
}

type ArchiveConfig struct {
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	if c.Run.BatchSize == 0 {
		c.Run.BatchSize = 10
	}
	if c.Run.MaxAttempts == 0 {
		c.Run.MaxAttempts = 5
	}
	if c.Run.TransientDelaySeconds == 0 {
		c.Run.TransientDelaySeconds = 20
	}
	if c.Segment.ChunkSize == 0 {
		c.Segment.ChunkSize = 10000
	}
	if c.Segment.MinSentences == 0 {
		c.Segment.MinSentences = 5
	}
	if c.Segment.MaxSentences == 0 {
		c.Segment.MaxSentences = 20
	}
	if c.Segment.ThresholdFactor == 0 {
		c.Segment.ThresholdFactor = 0.6
	}
}
