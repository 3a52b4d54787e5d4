package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fakeye/internal/common"
	"github.com/dmitrijs2005/fakeye/internal/models"
)

// Share publishes a history item to the community feed. The item is looked
// up by id; an optional description follows the id.
func (a *App) Share(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: share <history-id> [description...]")
		return nil
	}

	item, ok := a.findHistoryItem(args[0])
	if !ok {
		printlnFn("No history item with id", args[0])
		return nil
	}

	post := models.CommunityPost{
		Type:          item.Type,
		IsAIGenerated: item.IsAIGenerated,
		Confidence:    item.Confidence,
		Preview:       item.Preview,
		Description:   strings.Join(args[1:], " "),
		Metadata:      item.Metadata,
	}

	created, err := a.community.AddPost(ctx, post)
	if err != nil {
		printlnFn("Failed to share:", err.Error())
		return err
	}

	printlnFn("Shared as", created.ID)
	return nil
}

// Feed prints the community feed, newest first.
func (a *App) Feed(ctx context.Context) error {
	if err := a.community.Refresh(ctx); err != nil {
		printlnFn("Failed to load feed:", err.Error())
		return err
	}

	posts := a.community.Posts()
	if len(posts) == 0 {
		printlnFn("Feed is empty.")
		return nil
	}

	for _, post := range posts {
		printlnFn(formatPost(post))
		for _, comment := range post.Comments {
			printlnFn(fmt.Sprintf("    %s: %s", comment.Username, comment.Content))
		}
	}
	return nil
}

// Like toggles the current user's like on a post.
func (a *App) Like(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: like <post-id>")
		return nil
	}

	if err := a.community.LikePost(ctx, args[0]); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			printlnFn("No post with id", args[0])
			return nil
		}
		printlnFn("Failed to like post:", err.Error())
		return err
	}

	printlnFn("Done.")
	return nil
}

// Comment appends a comment to a post.
func (a *App) Comment(ctx context.Context, args []string) error {
	if len(args) < 2 {
		printlnFn("Usage: comment <post-id> <text...>")
		return nil
	}

	comment, err := a.community.AddComment(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			printlnFn("No post with id", args[0])
			return nil
		}
		printlnFn("Failed to comment:", err.Error())
		return err
	}

	printlnFn("Added comment", comment.ID)
	return nil
}

func (a *App) findHistoryItem(id string) (models.HistoryItem, bool) {
	for _, item := range a.history.Items() {
		if item.ID == id {
			return item, true
		}
	}
	return models.HistoryItem{}, false
}

func formatPost(post models.CommunityPost) string {
	verdict := "human"
	if post.IsAIGenerated {
		verdict = "AI"
	}
	when := time.UnixMilli(post.Timestamp).Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("%s  @%s  %-5s  %-5s  %5.1f%%  %s  %d like(s)",
		post.ID, post.Username, post.Type, verdict, post.Confidence, when, len(post.Likes))
	if post.Description != "" {
		line += "\n    " + post.Description
	}
	return line
}
