// Package openai implements the ai interfaces against OpenAI-compatible
// HTTP APIs (Ollama, LocalAI, vLLM, OpenAI itself) via langchaingo.
package openai
