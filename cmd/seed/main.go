// Package main provides a tool to seed the database with sample writers,
// articles, and engagement for local development.
//
// Usage:
//
//	DATA_PATH=~/Inkwell/data go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/realtime"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/validation"
	"github.com/inkwellapp/inkwell-server/internal/viewgate"
)

var writers = []string{"june", "amara", "felix", "tomoko", "idris"}

var titles = []string{
	"What I Learned Rewriting My First Novel",
	"The Quiet Discipline of a Daily Page",
	"Against the Cult of the Perfect Outline",
	"Letters From a Failed Serial",
	"On Reading Your Own Work Aloud",
	"Why I Stopped Chasing Literary Magazines",
	"A Field Guide to Abandoned Drafts",
	"The Case for Writing Badly on Purpose",
}

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Cannot determine home directory: %v", err)
		}
		dataPath = filepath.Join(home, "Inkwell", "data")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := sqlite.Open(filepath.Join(dataPath, "inkwell.db"), logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	// The seed writes through the services so slugs, excerpts, and
	// notifications come out exactly as production writes do. The search
	// index and view gate are throwaway; the server reindexes at startup.
	index, err := search.NewInMemory(logger)
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	gate, err := viewgate.OpenInMemory(viewgate.DefaultWindow, logger)
	if err != nil {
		log.Fatalf("Failed to open view gate: %v", err)
	}
	defer gate.Close()

	validator := validation.New()
	rt := realtime.NewManager(logger)

	tokens, err := auth.NewTokenService(strings.Repeat("0", 64), time.Hour)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	authSvc := service.NewAuthService(st, tokens, validator, logger)
	articleSvc := service.NewArticleService(st, index, validator, rt, logger)
	engagementSvc := service.NewEngagementService(st, gate, validator, rt, logger, "http://localhost:8080")
	followSvc := service.NewFollowService(st, rt, logger)

	ctx := context.Background()

	users := make([]*domain.User, 0, len(writers))
	for _, name := range writers {
		user, _, err := authSvc.Register(ctx, &service.RegisterRequest{
			Username:    name,
			Email:       name + "@example.com",
			Password:    "password123",
			DisplayName: strings.ToUpper(name[:1]) + name[1:],
		})
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", name, err)
		}
		users = append(users, user)
		fmt.Printf("Created writer %s (%s)\n", user.Username, user.ID)
	}

	// Everyone follows everyone else, so publishes fan out.
	for _, follower := range users {
		for _, followee := range users {
			if follower.ID == followee.ID {
				continue
			}
			if _, err := followSvc.Toggle(ctx, follower.ID, followee.ID); err != nil {
				log.Fatalf("Failed to follow: %v", err)
			}
		}
	}

	tags := []string{"craft", "fiction", "publishing", "process"}

	articles := make([]*domain.Article, 0, len(titles))
	for n, title := range titles {
		author := users[n%len(users)]

		content := "<p>"
		for range 8 + rand.Intn(8) {
			content += "There is no trick to it beyond sitting down and refusing to leave. "
		}
		content += "</p>"

		article, err := articleSvc.Create(ctx, author.ID, &domain.ArticleDraft{
			Title:   title,
			Content: content,
			Tags:    []string{tags[n%len(tags)], tags[(n+1)%len(tags)]},
		})
		if err != nil {
			log.Fatalf("Failed to create article: %v", err)
		}

		// Leave a couple as drafts.
		if n%4 != 3 {
			if article, err = articleSvc.Publish(ctx, article.ID, author.ID); err != nil {
				log.Fatalf("Failed to publish article: %v", err)
			}
		}
		articles = append(articles, article)
		fmt.Printf("Created article %q (published=%v)\n", article.Title, article.Published)
	}

	comments := []string{
		"This is exactly where I am right now.",
		"Saving this for the next time I stall out.",
		"Disagree with the outline take, but well argued.",
		"The part about reading aloud changed my revision process.",
	}

	for _, article := range articles {
		if !article.Published {
			continue
		}
		for _, reader := range users {
			if reader.ID == article.AuthorID {
				continue
			}
			if rand.Intn(2) == 0 {
				if _, _, err := engagementSvc.ToggleLike(ctx, article.ID, reader.ID); err != nil {
					log.Fatalf("Failed to like: %v", err)
				}
			}
			if rand.Intn(4) == 0 {
				if _, err := engagementSvc.AddComment(ctx, article.ID, reader.ID, &domain.CommentDraft{
					Content: comments[rand.Intn(len(comments))],
				}); err != nil {
					log.Fatalf("Failed to comment: %v", err)
				}
			}
			if err := engagementSvc.RecordView(ctx, article.ID, reader.ID, ""); err != nil {
				log.Fatalf("Failed to record view: %v", err)
			}
		}
	}

	fmt.Println("Seed complete.")
}
