package repositories

import (
	"fmt"
	"log/slog"
	"social-lab/domain"
	"social-lab/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Store_Posts_And_Read_Feed_Newest_First(t *testing.T) {
	req := require.New(t)
	repository := NewPostRepository(openInMemory(t), slog.Default(), nil)
	at := time.Now().UTC()
	posts := []domain.Post{
		{ID: "p1", AuthorID: "alice", Text: "first", CreatedAt: at},
		{ID: "p2", AuthorID: "bob", Text: "second", ImageRefs: []string{"a.png", "b.png"}, CreatedAt: at.Add(time.Minute)},
		{ID: "p3", AuthorID: "alice", Text: "third", CreatedAt: at.Add(2 * time.Minute)},
	}
	for _, p := range posts {
		req.NoError(repository.StorePost(p))
	}

	feed, _, err := repository.GetFeed(nil)
	req.NoError(err)
	req.Len(feed, 3)
	req.Equal([]string{"p3", "p2", "p1"}, []string{feed[0].ID, feed[1].ID, feed[2].ID})
	req.Equal([]string{"a.png", "b.png"}, feed[1].ImageRefs)

	authored, _, err := repository.GetAuthorPosts("alice", nil)
	req.NoError(err)
	req.Len(authored, 2)
	req.Equal("p3", authored[0].ID)
	req.Equal("p1", authored[1].ID)
}

func Test_Feed_Paging_With_Cursor(t *testing.T) {
	req := require.New(t)
	limit := 2
	repository := NewPostRepository(openInMemory(t), slog.Default(), &limit)
	at := time.Now().UTC()
	for i := 0; i < 5; i++ {
		req.NoError(repository.StorePost(domain.Post{
			ID:        fmt.Sprintf("p%d", i),
			AuthorID:  "alice",
			Text:      "post",
			CreatedAt: at.Add(time.Duration(i) * time.Second),
		}))
	}

	page1, cursor, err := repository.GetFeed(nil)
	req.NoError(err)
	req.Len(page1, 2)
	req.Equal("p4", page1[0].ID)

	page2, cursor, err := repository.GetFeed(cursor)
	req.NoError(err)
	req.Len(page2, 2)
	req.Equal("p2", page2[0].ID)
	req.Equal("p1", page2[1].ID)

	page3, _, err := repository.GetFeed(cursor)
	req.NoError(err)
	req.Len(page3, 1)
	req.Equal("p0", page3[0].ID)
}

func Test_Get_Unknown_Post(t *testing.T) {
	req := require.New(t)
	repository := NewPostRepository(openInMemory(t), slog.Default(), nil)

	_, err := repository.GetPost("missing")
	req.ErrorIs(err, errors.ErrPostNotFound)
}

func Test_List_Posts_Keeps_Description_And_Category(t *testing.T) {
	req := require.New(t)
	repository := NewPostRepository(openInMemory(t), slog.Default(), nil)
	post := domain.Post{
		ID:          "p1",
		AuthorID:    "alice",
		Text:        "Sunset",
		Description: "Golden hour over the bay",
		Category:    "travel",
		ImageRefs:   []string{"a.png"},
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	req.NoError(repository.StorePost(post))

	posts, err := repository.ListPosts()
	req.NoError(err)
	req.Equal([]domain.Post{post}, posts)
}
