// Package llm extracts structured ingredients from free text with a language
// model. It supports OpenAI, Anthropic and Gemini, with retry logic, rate
// limiting, and response caching.
package llm
