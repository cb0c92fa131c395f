package feed

import (
	_ "embed"
	"fmt"
	"time"

	"lumina/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedAuthor struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	ProfilePicture string `yaml:"profilePicture"`
}

type seedEntry struct {
	Author seedAuthor `yaml:"author"`
	Image  string     `yaml:"image"`
	Prompt string     `yaml:"prompt"`
}

type seedComment struct {
	UserID   string `yaml:"userId"`
	UserName string `yaml:"userName"`
	Text     string `yaml:"text"`
}

type seedFile struct {
	Entries  []seedEntry   `yaml:"entries"`
	Comments []seedComment `yaml:"comments"`
}

// seedPosts builds the one-time bootstrap content for an empty feed. Like
// and share counts are randomized so the seed looks alive; the LikedBy set
// stays empty because no real user has interacted yet.
func seedPosts() []models.PublicPost {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		// The seed file is embedded at build time; failing to parse it is a
		// programming error.
		panic(fmt.Sprintf("feed: invalid seed.yaml: %v", err))
	}

	now := time.Now().UTC()
	posts := make([]models.PublicPost, 0, len(f.Entries))
	for i, e := range f.Entries {
		comments := make([]models.Comment, 0, len(f.Comments))
		for j, c := range f.Comments {
			comments = append(comments, models.Comment{
				ID:        fmt.Sprintf("c%d_%d", j+1, i),
				UserID:    c.UserID,
				UserName:  c.UserName,
				Text:      c.Text,
				Timestamp: now,
			})
		}

		posts = append(posts, models.PublicPost{
			SavedEdit: models.SavedEdit{
				ID:                 fmt.Sprintf("seed_%d", i+1),
				Original:           e.Image,
				Edited:             e.Image,
				Prompt:             e.Prompt,
				UserID:             e.Author.ID,
				UserName:           e.Author.Name,
				UserProfilePicture: e.Author.ProfilePicture,
			},
			Likes:    gofakeit.Number(10, 210),
			LikedBy:  []string{},
			Comments: comments,
			Shares:   gofakeit.Number(0, 50),
		})
	}
	return posts
}
