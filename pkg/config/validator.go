package config

import (
	"fmt"
	"net/url"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.HF.MaxTokens < 1 || c.HF.MaxTokens > 4096 {
		errors = append(errors, ValidationError{
			Field:   "huggingface.max_tokens",
			Message: "max_tokens must be between 1 and 4096",
		})
	}

	if c.HF.BaseURL != "" && !strings.HasPrefix(c.HF.BaseURL, "http") {
		errors = append(errors, ValidationError{
			Field:   "huggingface.base_url",
			Message: "base_url must be an http(s) URL",
		})
	}

	if c.Embedding.Enabled {
		if _, err := url.Parse(c.Embedding.BaseURL); err != nil || c.Embedding.BaseURL == "" {
			errors = append(errors, ValidationError{
				Field:   "embedding.base_url",
				Message: "Ollama base URL is required when embedding is enabled",
			})
		}
	}

	if c.Database.URL != "" {
		if _, err := url.Parse(c.Database.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	}

	if c.Database.VectorDim < 1 {
		errors = append(errors, ValidationError{
			Field:   "database.vector_dim",
			Message: "vector_dim must be positive",
		})
	}

	if c.Retriever.TopK < 1 {
		errors = append(errors, ValidationError{
			Field:   "retriever.top_k",
			Message: "top_k must be positive",
		})
	}

	if c.Retriever.MatchThreshold < 0 || c.Retriever.MatchThreshold > 1 {
		errors = append(errors, ValidationError{
			Field:   "retriever.match_threshold",
			Message: "match_threshold must be between 0 and 1",
		})
	}

	if c.Scraper.MaxDepth < 1 {
		errors = append(errors, ValidationError{
			Field:   "scraper.max_depth",
			Message: "max_depth must be positive",
		})
	}

	if c.Scraper.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scraper.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	for _, ext := range c.Scraper.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") && ext != "" && ext != "/" {
			errors = append(errors, ValidationError{
				Field:   "scraper.allowed_extensions",
				Message: fmt.Sprintf("invalid extension format: %s", ext),
			})
		}
	}

	if c.Processor.SnippetLength < 1 {
		errors = append(errors, ValidationError{
			Field:   "processor.snippet_length",
			Message: "snippet_length must be positive",
		})
	}

	if c.Processor.MaxContentLength < c.Processor.MinContentLength {
		errors = append(errors, ValidationError{
			Field:   "processor.max_content_length",
			Message: "max_content_length must be at least min_content_length",
		})
	}

	return errors
}
