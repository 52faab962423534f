package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dom/blog-platform/internal/domain"
)

const fakePassword = "seedpassword123"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	apiURL := "http://localhost:9999"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "content":
		contentCmd(apiURL, args)
	case "likes":
		likesCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Blog Seeder - Development tool for populating a local blog API

USAGE:
  seeder <command> [options]

COMMANDS:
  content   Publish blogs as an admin, then have fake readers comment and like them
  likes     Hammer one blog with concurrent like toggles and check the counter
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:9999)

EXAMPLES:
  # Admin email must be listed in WHITELIST_ADMINS_MAIL
  seeder content --admin=admin@example.com --blogs=3 --readers=5

  # 20 readers like the same blog at once
  seeder likes --slug=my-first-post-ab12cd --readers=20`)
}

func contentCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("content", flag.ExitOnError)
	adminEmail := fs.String("admin", "", "Whitelisted admin email (registered if missing)")
	adminPassword := fs.String("admin-password", fakePassword, "Admin password")
	blogs := fs.Int("blogs", 3, "Number of blogs to publish")
	readers := fs.Int("readers", 5, "Number of fake readers to register")
	fs.Parse(args)

	if *adminEmail == "" {
		fmt.Println("Error: --admin is required")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Println("=== Blog Seeder: Content ===")
	fmt.Println()

	fmt.Print("Signing in admin... ")
	admin, err := client.Login(*adminEmail, *adminPassword)
	if err != nil {
		admin, err = client.Register(*adminEmail, *adminPassword, domain.RoleAdmin)
	}
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (user: %s)\n", admin.Data.User.Username)

	var published []*domain.Blog
	fmt.Println()
	fmt.Printf("Publishing %d blogs:\n", *blogs)
	for i := 1; i <= *blogs; i++ {
		blog, err := client.CreateBlog(admin.Token,
			fmt.Sprintf("Seeded Post %d", i),
			fmt.Sprintf("Body of seeded post number %d.", i),
		)
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED: %v\n", i, *blogs, err)
			os.Exit(1)
		}
		published = append(published, blog)
		fmt.Printf("  [%d/%d] %s\n", i, *blogs, blog.Slug)
	}

	fmt.Println()
	fmt.Printf("Adding %d readers:\n", *readers)
	for i := 1; i <= *readers; i++ {
		reader, err := client.Register(fakeEmail("reader"), fakePassword, domain.RoleUser)
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED: %v\n", i, *readers, err)
			os.Exit(1)
		}

		for _, blog := range published {
			if _, err := client.ToggleLike(reader.Token, domain.ResourceBlog, blog.ID.String()); err != nil {
				fmt.Printf("Warning: %s could not like %s: %v\n", reader.Data.User.Username, blog.Slug, err)
			}
		}

		target := published[i%len(published)]
		comment, err := client.CreateComment(reader.Token, target.ID.String(), fmt.Sprintf("Nice read from %s", reader.Data.User.Username))
		if err != nil {
			fmt.Printf("Warning: %s could not comment: %v\n", reader.Data.User.Username, err)
		} else if _, err := client.ToggleLike(admin.Token, domain.ResourceComment, comment.ID.String()); err != nil {
			fmt.Printf("Warning: admin could not like comment: %v\n", err)
		}

		fmt.Printf("  [%d/%d] %s\n", i, *readers, reader.Data.User.Username)
	}

	fmt.Println()
	fmt.Println("=========================================")
	fmt.Println("  SEEDED")
	fmt.Println("=========================================")
	for _, blog := range published {
		current, err := client.GetBlog(blog.Slug)
		if err != nil {
			fmt.Printf("  %s: %v\n", blog.Slug, err)
			continue
		}
		fmt.Printf("  %-32s likes=%d comments=%d\n", current.Slug, current.LikesCount, current.CommentsCount)
	}
}

func likesCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("likes", flag.ExitOnError)
	slug := fs.String("slug", "", "Slug of a published blog")
	readers := fs.Int("readers", 10, "Number of concurrent readers")
	fs.Parse(args)

	if *slug == "" {
		fmt.Println("Error: --slug is required")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	before, err := client.GetBlog(*slug)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Registering %d readers... ", *readers)
	tokens := make([]string, 0, *readers)
	for i := 0; i < *readers; i++ {
		reader, err := client.Register(fakeEmail("liker"), fakePassword, domain.RoleUser)
		if err != nil {
			fmt.Printf("FAILED\n  Error: %v\n", err)
			os.Exit(1)
		}
		tokens = append(tokens, reader.Token)
	}
	fmt.Println("OK")

	fmt.Print("Liking concurrently... ")
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			if _, err := client.ToggleLike(token, domain.ResourceBlog, before.ID.String()); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(token)
	}
	wg.Wait()
	fmt.Printf("done (%d failed)\n", failed)

	after, err := client.GetBlog(*slug)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	want := before.LikesCount + int64(len(tokens)-failed)
	fmt.Printf("likesCount: before=%d after=%d expected=%d\n", before.LikesCount, after.LikesCount, want)
	if after.LikesCount != want {
		fmt.Println("MISMATCH")
		os.Exit(1)
	}
}

func fakeEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@seed.local", prefix, time.Now().UnixNano())
}
