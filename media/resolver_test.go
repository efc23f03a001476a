package media

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolver_URL(t *testing.T) {
	req := require.New(t)
	r := NewResolver("https://cdn.example.com/")

	req.Equal("https://cdn.example.com/posts/a.jpg", r.URL("posts/a.jpg"))
	req.Equal("https://cdn.example.com/posts/a.jpg", r.URL("/posts/a.jpg"))
	req.Equal("https://other.example.com/x.png", r.URL("https://other.example.com/x.png"))
	req.Equal("", r.URL("  "))
}

func TestResolver_AvatarURL_Default(t *testing.T) {
	req := require.New(t)
	r := NewResolver("https://cdn.example.com")

	req.Equal("https://cdn.example.com/default-profile.jpg", r.AvatarURL(""))
	req.Equal("https://cdn.example.com/me.jpg", r.AvatarURL("me.jpg"))
}

func TestResolver_URLs_Keeps_Order(t *testing.T) {
	req := require.New(t)
	r := NewResolver("")

	// Every position of the stored references is kept
	req.Equal([]string{"/b.jpg", "", "/a.jpg"}, r.URLs([]string{"b.jpg", "", "a.jpg"}))
	req.Nil(r.URLs(nil))
}
