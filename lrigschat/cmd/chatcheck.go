// Command-line self-test entrypoint for LRIGSCHAT.
//
// Usage:
//
//	chatcheck api    # verify API key and connectivity only
//	chatcheck chat   # run a short live conversation plus store checks
//	chatcheck        # run everything
//
// Exit status is 0 only when every selected check passes.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"lrigschat/lrigschat/config"
	"lrigschat/lrigschat/services/mistral"
	"lrigschat/lrigschat/sources/session"
	"lrigschat/lrigschat/types"
	"lrigschat/lrigschat/utils/color"
	"lrigschat/lrigschat/utils/logging"
)

func main() {
	logging.InitLogger(false)

	subset := ""
	if len(os.Args) > 1 {
		subset = os.Args[1]
	}
	switch subset {
	case "", "api", "chat":
	default:
		fmt.Println("chatcheck usage:")
		fmt.Println("  chatcheck [api|chat]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println(color.ColorError("configuration error: " + err.Error()))
		os.Exit(1)
	}
	fmt.Println(color.ColorInfo(fmt.Sprintf("API key found (first 4 characters: %s...)", cfg.APIKey[:min(4, len(cfg.APIKey))])))

	client, err := mistral.New(cfg.APIKey, cfg.BaseURL, cfg.DefaultModel)
	if err != nil {
		fmt.Println(color.ColorError("client initialization failed: " + err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ok := true
	if subset == "" || subset == "api" {
		ok = checkAPI(ctx, client) && ok
	}
	if subset == "" || subset == "chat" {
		ok = checkStore() && ok
		ok = checkChat(ctx, client, cfg) && ok
	}

	if !ok {
		fmt.Println(color.ColorFinalFail("some checks failed"))
		os.Exit(1)
	}
	fmt.Println(color.ColorFinalSuccess("all checks passed"))
}

func checkAPI(ctx context.Context, client *mistral.Client) bool {
	fmt.Println("=== API connectivity ===")
	if err := client.TestConnection(ctx); err != nil {
		fmt.Println(color.ColorError(fmt.Sprintf("connection test failed (%s): %v", mistral.ErrorKind(err), err)))
		return false
	}
	fmt.Println(color.ColorInfo("connection test passed"))

	models, err := client.ListModels(ctx)
	if err != nil {
		fmt.Println(color.ColorWarning(fmt.Sprintf("model listing failed (%s): %v", mistral.ErrorKind(err), err)))
		return false
	}
	fmt.Println(color.ColorInfo(fmt.Sprintf("%d models available", len(models))))
	return true
}

// checkChat runs a two-turn conversation to verify context carries
// across turns, the way a real chat session does.
func checkChat(ctx context.Context, client *mistral.Client, cfg config.Config) bool {
	fmt.Println("=== Live conversation ===")
	history := []types.Message{
		{Role: types.RoleUser, Content: "Hello! Which season do you prefer, and why?"},
	}
	first, err := client.Complete(ctx, mistral.CompletionRequest{
		Model:     cfg.DefaultModel,
		Messages:  history,
		MaxTokens: 10,
	})
	if err != nil {
		fmt.Println(color.ColorError(fmt.Sprintf("first turn failed (%s): %v", mistral.ErrorKind(err), err)))
		return false
	}
	fmt.Println(color.ColorInfo("assistant: " + first.Content))

	history = append(history, first,
		types.Message{Role: types.RoleUser, Content: "What colors are typical of autumn?"})
	second, err := client.Complete(ctx, mistral.CompletionRequest{
		Model:     cfg.DefaultModel,
		Messages:  history,
		MaxTokens: 10,
	})
	if err != nil {
		fmt.Println(color.ColorError(fmt.Sprintf("second turn failed (%s): %v", mistral.ErrorKind(err), err)))
		return false
	}
	fmt.Println(color.ColorInfo("assistant: " + second.Content))
	return true
}

// checkStore exercises the conversation store offline.
func checkStore() bool {
	fmt.Println("=== Conversation store ===")
	store := session.NewStore()
	first := store.ActiveID()
	second := store.Create()
	if store.Len() != 2 || store.ActiveID() != second {
		fmt.Println(color.ColorError("create/active bookkeeping is wrong"))
		return false
	}
	if err := store.Append(second, types.Message{Role: types.RoleUser, Content: "store self-test"}); err != nil {
		fmt.Println(color.ColorError("append failed: " + err.Error()))
		return false
	}
	if err := store.Delete(second); err != nil || store.ActiveID() != first {
		fmt.Println(color.ColorError("delete did not reassign the active conversation"))
		return false
	}
	fmt.Println(color.ColorInfo("store checks passed"))
	return true
}
