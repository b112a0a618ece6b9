package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCandidates_RelativeAgainstPageLink(t *testing.T) {
	resolved := ResolveCandidates(
		[]string{"imgs/a.jpg"},
		ResolveBase("https://x.com/listing/5", "https://origin.test/page"),
	)
	assert.Equal(t, []string{"https://x.com/listing/imgs/a.jpg"}, resolved)
}

func TestResolveCandidates_AbsoluteKeptAsIs(t *testing.T) {
	resolved := ResolveCandidates(
		[]string{"https://cdn.test/photo.png"},
		"https://x.com/listing/5",
	)
	assert.Equal(t, []string{"https://cdn.test/photo.png"}, resolved)
}

func TestResolveCandidates_OriginFallbackWhenPageLinkRelative(t *testing.T) {
	base := ResolveBase("/listing/5", "https://origin.test/search")
	assert.Equal(t, "https://origin.test/search", base)

	resolved := ResolveCandidates([]string{"/media/1.jpg"}, base)
	assert.Equal(t, []string{"https://origin.test/media/1.jpg"}, resolved)
}

func TestResolveCandidates_DroppedWithoutBase(t *testing.T) {
	resolved := ResolveCandidates([]string{"imgs/a.jpg", "https://cdn.test/b.jpg"}, ResolveBase("", ""))
	assert.Equal(t, []string{"https://cdn.test/b.jpg"}, resolved)
}

func TestResolveCandidates_SkipsEmptyAndMalformed(t *testing.T) {
	resolved := ResolveCandidates(
		[]string{"", "   ", "://bad url", "good.jpg"},
		"https://x.com/listing/5",
	)
	assert.Equal(t, []string{"https://x.com/listing/good.jpg"}, resolved)
}

func TestResolveCandidates_PreservesOrder(t *testing.T) {
	resolved := ResolveCandidates(
		[]string{"c.jpg", "a.jpg", "b.jpg"},
		"https://x.com/l/",
	)
	assert.Equal(t, []string{
		"https://x.com/l/c.jpg",
		"https://x.com/l/a.jpg",
		"https://x.com/l/b.jpg",
	}, resolved)
}

func TestResolveBase_NeitherAbsolute(t *testing.T) {
	assert.Equal(t, "", ResolveBase("listing/5", "not a url"))
}

func TestExtensionFor_ContentTypeWins(t *testing.T) {
	assert.Equal(t, "png", ExtensionFor("image/png", "https://x.com/a.gif"))
	assert.Equal(t, "jpg", ExtensionFor("image/jpeg; charset=binary", "https://x.com/a"))
	assert.Equal(t, "svg", ExtensionFor("image/svg+xml", "https://x.com/a"))
}

func TestExtensionFor_URLFallback(t *testing.T) {
	assert.Equal(t, "webp", ExtensionFor("", "https://x.com/photo.webp?w=600"))
	assert.Equal(t, "jpg", ExtensionFor("application/octet-stream", "https://x.com/photo.jpeg"))
}

func TestExtensionFor_Default(t *testing.T) {
	assert.Equal(t, "jpg", ExtensionFor("", "https://x.com/photo"))
	assert.Equal(t, "jpg", ExtensionFor("text/html", "https://x.com/photo"))
}
