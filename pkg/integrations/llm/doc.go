// Package llm provides a client for OpenAI-compatible chat completion APIs.
//
// # Overview
//
// The analysis service extracts character relationships by sending a book
// excerpt to a chat model. Any endpoint that implements
// POST {baseURL}/chat/completions with the OpenAI request and response
// shapes works; the default points at SambaNova.
//
// # Usage
//
//	client := llm.NewClient(llm.Config{APIKey: os.Getenv("OPENAI_API_KEY")})
//	content, err := client.Complete(ctx, []llm.Message{
//	    llm.System("You are a literary analysis assistant."),
//	    llm.User(prompt),
//	})
//
// [Client.Complete] returns the first choice's content with surrounding
// whitespace and Markdown code fences removed.
package llm
